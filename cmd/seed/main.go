// Package main provides a tool to seed the database with demo data.
//
// It creates a handful of users, uploads placeholder videos for them, and
// sprinkles comments, likes, and subscriptions across the result so feed,
// channel, and counter behavior can be exercised without a client.
//
// Usage:
//
//	DATA_PATH=~/ClipStream/data UPLOADS_PATH=~/ClipStream/uploads go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/clipstream/clipstream-server/internal/domain"
	"github.com/clipstream/clipstream-server/internal/media"
	"github.com/clipstream/clipstream-server/internal/service"
	"github.com/clipstream/clipstream-server/internal/store"
)

var videosPerUser = flag.Int("videos", 3, "Videos to upload per seeded user")

var seedUsers = []struct {
	Username    string
	Email       string
	DisplayName string
	Bio         string
}{
	{"alice", "alice@example.com", "Alice", "Coffee, cameras, and code."},
	{"bob", "bob@example.com", "Bob", "Trail rides and repair logs."},
	{"carol", "carol@example.com", "Carol", "Cooking one pot at a time."},
}

var seedTitles = []string{
	"Morning routine, unedited",
	"Fixing the squeaky derailleur",
	"Pour-over, three ways",
	"Monitor arm teardown",
	"Sunset timelapse from the roof",
	"One-pan dinner in 20 minutes",
	"Mechanical keyboard first build",
	"City ride, no commentary",
}

var seedComments = []string{
	"Nice clip!",
	"More of this please.",
	"What camera is this?",
	"Subscribed after this one.",
	"The ending got me.",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/ClipStream/data")
	}
	uploadsPath := os.Getenv("UPLOADS_PATH")
	if uploadsPath == "" {
		uploadsPath = os.ExpandEnv("$HOME/ClipStream/uploads")
	}

	fmt.Printf("Opening database at: %s\n", dataPath)

	s, err := store.New(filepath.Join(dataPath, "db"), nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	storage, err := media.NewStorage(uploadsPath)
	if err != nil {
		log.Fatalf("Failed to open media storage: %v", err)
	}

	authSvc := service.NewAuthService(s, nil, nil)
	videoSvc := service.NewVideoService(s, storage, nil, nil)
	commentSvc := service.NewCommentService(s, nil)
	socialSvc := service.NewSocialService(s, nil)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Create users.
	userIDs := make([]string, 0, len(seedUsers))
	for _, u := range seedUsers {
		resp, err := authSvc.Register(ctx, service.RegisterRequest{
			Username:    u.Username,
			Email:       u.Email,
			Password:    "demo password, do not reuse",
			DisplayName: u.DisplayName,
			Bio:         u.Bio,
		})
		if err != nil {
			log.Printf("Skipping user %s: %v", u.Username, err)
			continue
		}
		fmt.Printf("Created user %s (%s)\n", u.Username, resp.User.ID)
		userIDs = append(userIDs, resp.User.ID)
	}

	if len(userIDs) == 0 {
		log.Fatal("No users created. Is the database already seeded?")
	}

	// Upload videos.
	videoIDs := make([]string, 0, len(userIDs)*(*videosPerUser))
	for _, userID := range userIDs {
		for v := 0; v < *videosPerUser; v++ {
			title := seedTitles[rng.Intn(len(seedTitles))]
			video, err := videoSvc.Upload(ctx, userID, service.UploadRequest{
				Title:       title,
				Description: "Seeded demo video.",
				Tags:        "demo, seed",
				FileName:    "demo.mp4",
				FileData:    []byte("seeded placeholder payload"),
			})
			if err != nil {
				log.Printf("Failed to upload video for %s: %v", userID, err)
				continue
			}
			videoIDs = append(videoIDs, video.ID)
			time.Sleep(time.Millisecond)
		}
	}

	fmt.Printf("Uploaded %d videos\n", len(videoIDs))

	// Comments and likes from random users.
	for _, videoID := range videoIDs {
		for _, userID := range userIDs {
			if rng.Intn(2) == 0 {
				continue
			}

			text := seedComments[rng.Intn(len(seedComments))]
			if _, err := commentSvc.Add(ctx, userID, videoID, service.AddCommentRequest{Text: text}); err != nil {
				log.Printf("Failed to comment on %s: %v", videoID, err)
			}

			if _, err := socialSvc.ToggleLike(ctx, userID, videoID, domain.ReactionLike); err != nil {
				log.Printf("Failed to like %s: %v", videoID, err)
			}
		}
	}

	// Everyone subscribes to everyone else.
	for _, subscriberID := range userIDs {
		for _, channelID := range userIDs {
			if subscriberID == channelID {
				continue
			}
			if _, err := socialSvc.ToggleSubscription(ctx, subscriberID, channelID); err != nil {
				log.Printf("Failed to subscribe %s to %s: %v", subscriberID, channelID, err)
			}
		}
	}

	fmt.Println("Seeding complete")
}
