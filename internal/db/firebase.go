package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"hoa-backend-go/internal/config"
)

// Clients holds the Firebase Admin SDK clients the server depends on.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
	Bucket    *gcs.BucketHandle
}

// InitFirebase initializes the Firebase Admin SDK and returns the Firestore,
// Auth and Storage clients. Credentials come from a service account file, a
// base64 encoded service account JSON, or Application Default Credentials,
// in that order of preference.
func InitFirebase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Clients, error) {
	if cfg == nil {
		return nil, errors.New("InitFirebase: config cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case cfg.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file", zap.String("path", cfg.GoogleApplicationCredentials))
		if _, err := os.Stat(cfg.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file does not exist; Firebase may fall back to ADC", zap.String("path", cfg.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleApplicationCredentials))
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with base64 encoded service account JSON")
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.FirebaseStorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("app.Storage: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("storage.DefaultBucket: %w", err)
	}

	logger.Info("Firebase clients initialized",
		zap.String("project_id", cfg.FirebaseProjectID),
		zap.String("bucket", cfg.FirebaseStorageBucket),
	)
	return &Clients{Firestore: fs, Auth: authClient, Bucket: bucket}, nil
}

// Close releases the Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
