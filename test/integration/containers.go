package integration

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/testcontainers/testcontainers-go/modules/gcloud"
)

const projectID = "relay-integration"

type Env struct {
	Firestore *gcloud.GCloudContainer
	Client    *firestore.Client
}

// Setup starts a Firestore emulator and connects a client to it. The
// client library picks the emulator up via FIRESTORE_EMULATOR_HOST, so
// no credentials are needed.
func Setup(ctx context.Context) (*Env, error) {
	c, err := gcloud.RunFirestore(ctx,
		"gcr.io/google.com/cloudsdktool/google-cloud-cli:481.0.0-emulators",
		gcloud.WithProjectID(projectID),
	)
	if err != nil {
		return nil, err
	}

	if err := os.Setenv("FIRESTORE_EMULATOR_HOST", c.URI); err != nil {
		_ = c.Terminate(ctx)
		return nil, err
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, err
	}

	return &Env{Firestore: c, Client: client}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	_ = e.Client.Close()
	_ = os.Unsetenv("FIRESTORE_EMULATOR_HOST")
	_ = e.Firestore.Terminate(ctx)
}
