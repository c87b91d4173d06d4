package providers

import (
	"github.com/samber/do/v2"

	"github.com/clipstream/clipstream-server/internal/auth"
	"github.com/clipstream/clipstream-server/internal/config"
	"github.com/clipstream/clipstream-server/internal/logger"
)

// AuthKey is the PASETO symmetric key loaded at startup.
type AuthKey []byte

// ProvideAuthKey loads or generates the token signing key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	cfg.Auth.TokenKey = key
	log.Info("Auth key loaded")

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(key, cfg.Auth.AccessTokenDuration)
}
