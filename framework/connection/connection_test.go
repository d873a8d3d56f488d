package connection

import (
	"context"
	"net/http/httptest"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bluepayhq/bluepay/common"
)

func newTestFirestoreClient(t *testing.T) *firestore.Client {
	t.Helper()

	fs, err := firestore.NewClient(context.Background(),
		common.TestProjectID,
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	require.NoError(t, err)

	return fs
}

func TestConnection_Firestore(t *testing.T) {
	defaultClient := newTestFirestoreClient(t)
	requestClient := newTestFirestoreClient(t)

	conn := &Connection{
		&FirestoreClient{fs: defaultClient},
	}

	t.Run("returns the default client without a context override", func(t *testing.T) {
		assert.Same(t, defaultClient, conn.Firestore(context.Background()))
	})

	t.Run("returns the client stored in the request context", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Set(CtxFirestoreKey, requestClient)

		assert.Same(t, requestClient, conn.Firestore(ctx))
	})

	t.Run("FirestoreWithContext populates the request context", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())

		conn.FirestoreWithContext(ctx)

		assert.Same(t, defaultClient, conn.Firestore(ctx))
	})
}
