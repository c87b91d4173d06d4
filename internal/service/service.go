// Package service implements the application's business operations on top
// of the document store, media storage and search index.
package service

import "github.com/clipstream/clipstream-server/internal/validation"

// validate checks service request structs before they touch the store.
var validate = validation.New()
