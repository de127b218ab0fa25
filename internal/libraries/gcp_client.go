package libraries

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type Clients struct {
	GCS *storage.Client
}

// NewClients builds the Cloud Storage client from base64 encoded service
// account JSON. Empty credentials fall back to application default
// credentials.
func NewClients(ctx context.Context, encoded string) (*Clients, error) {
	var opts []option.ClientOption
	if encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode service account json: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}

	gcsClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &Clients{GCS: gcsClient}, nil
}

func (c *Clients) Close() {
	c.GCS.Close()
}
