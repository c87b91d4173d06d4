package providers

import (
	"github.com/samber/do/v2"

	"github.com/clipstream/clipstream-server/internal/config"
	"github.com/clipstream/clipstream-server/internal/logger"
	"github.com/clipstream/clipstream-server/internal/media"
)

// ProvideMediaStorage provides the uploads storage for videos and thumbnails.
func ProvideMediaStorage(i do.Injector) (*media.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := media.NewStorage(cfg.Storage.UploadsPath)
	if err != nil {
		return nil, err
	}

	log.Info("Media storage initialized", "path", cfg.Storage.UploadsPath)

	return storage, nil
}
