package contract

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// lookupSubjects is where lookup events land under the test prefix.
const lookupSubjects = subjectPrefix + ".follows.lookup"

var (
	testNC  *nats.Conn
	testCtx context.Context
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	testCtx = context.Background()

	container, err := testcontainers.GenericContainer(testCtx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Printf("failed to start NATS container: %v\n", err)
		return 1
	}
	defer container.Terminate(testCtx)

	endpoint, err := container.PortEndpoint(testCtx, "4222/tcp", "nats")
	if err != nil {
		fmt.Printf("failed to get NATS endpoint: %v\n", err)
		return 1
	}

	nc, err := nats.Connect(endpoint, nats.Timeout(10*time.Second))
	if err != nil {
		fmt.Printf("failed to connect to NATS: %v\n", err)
		return 1
	}
	defer nc.Close()
	testNC = nc

	return m.Run()
}

func getConn() *nats.Conn {
	return testNC
}

func getContext() context.Context {
	return testCtx
}

// collect subscribes to subject for the rest of the test. The channel is
// never closed; the subscription is drained at cleanup.
func collect(t *testing.T, subject string) <-chan *nats.Msg {
	t.Helper()

	msgs := make(chan *nats.Msg, 16)
	sub, err := testNC.ChanSubscribe(subject, msgs)
	if err != nil {
		t.Fatalf("failed to subscribe to %s: %v", subject, err)
	}
	// Make sure the server has the subscription before anything publishes.
	if err := testNC.Flush(); err != nil {
		t.Fatalf("failed to flush subscription: %v", err)
	}
	t.Cleanup(func() { sub.Drain() })

	return msgs
}

// next waits for one message.
func next(t *testing.T, msgs <-chan *nats.Msg) *nats.Msg {
	t.Helper()

	select {
	case msg := <-msgs:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for lookup event")
		return nil
	}
}

// expectQuiet fails if a message arrives within wait.
func expectQuiet(t *testing.T, msgs <-chan *nats.Msg, wait time.Duration) {
	t.Helper()

	select {
	case msg := <-msgs:
		t.Fatalf("unexpected message on %s: %s", msg.Subject, msg.Data)
	case <-time.After(wait):
	}
}
