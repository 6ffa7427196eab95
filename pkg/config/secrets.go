package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

type secretAccessor interface {
	Access(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerAccessor struct {
	client *secretmanager.Client
}

func newSecretManagerAccessor(ctx context.Context) (*secretManagerAccessor, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}
	return &secretManagerAccessor{client: client}, nil
}

func (a *secretManagerAccessor) Access(ctx context.Context, name string) (string, error) {
	resp, err := a.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

func (a *secretManagerAccessor) Close() error {
	return a.client.Close()
}

func (s SecretsConfig) any() bool {
	return s.TwitterToken != "" || s.InstagramToken != "" || s.InstagramAccountID != "" ||
		s.SchedulerToken != "" || s.GroqAPIKey != ""
}

// resolveSecrets fills empty credentials from Secret Manager. Failures are
// logged and leave the credential empty so mock values apply.
func resolveSecrets(ctx context.Context, cfg *Config, accessor secretAccessor) {
	targets := []struct {
		secret string
		dst    *string
	}{
		{cfg.Secrets.TwitterToken, &cfg.TwitterToken},
		{cfg.Secrets.InstagramToken, &cfg.InstagramToken},
		{cfg.Secrets.InstagramAccountID, &cfg.InstagramAccountID},
		{cfg.Secrets.SchedulerToken, &cfg.SchedulerToken},
		{cfg.Secrets.GroqAPIKey, &cfg.GroqAPIKey},
	}

	for _, target := range targets {
		if target.secret == "" || *target.dst != "" {
			continue
		}

		value, err := accessor.Access(ctx, secretVersionName(cfg.GCPProject, target.secret))
		if err != nil {
			slog.Warn("Failed to resolve secret", "secret", target.secret, "error", err)
			continue
		}
		*target.dst = value
	}
}

func secretVersionName(project, secret string) string {
	if strings.HasPrefix(secret, "projects/") {
		return secret
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, secret)
}
