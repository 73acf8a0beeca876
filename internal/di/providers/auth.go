package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/reelrank/reelrank-server/internal/auth"
	"github.com/reelrank/reelrank-server/internal/config"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey uses AUTH_KEY when set and otherwise loads or generates the key file.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	key := cfg.Auth.AccessTokenKey
	source := "environment"
	if len(key) == 0 {
		var err error
		key, err = auth.LoadOrGenerateKey(cfg.App.DataPath)
		if err != nil {
			return nil, err
		}
		cfg.Auth.AccessTokenKey = key
		source = "key file"
	}

	log.Info("Authentication key loaded",
		"source", source,
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}

// ProvideHasher provides the argon2id password hasher.
func ProvideHasher(i do.Injector) (*auth.Hasher, error) {
	return auth.NewHasher(auth.DefaultParams())
}
