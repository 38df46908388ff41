package sessions

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lyceumd/lyceumd/internal/token"
)

type fakeRunner struct {
	name string
	args []string
	out  []byte
	err  error
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return f.out, f.err
}

func TestBySupervisorDecodesToolOutput(t *testing.T) {
	runner := &fakeRunner{out: []byte("log line\n# JSON-begin\n{\"doe-exam\":{\"COMMENT\":\"math\"}}\n# JSON-end\n")}
	service := NewService(runner, nil, 0)

	sessions, err := service.BySupervisor(context.Background(), "doe")
	if err != nil {
		t.Fatalf("by supervisor: %v", err)
	}
	if runner.name != "sophomorix-session" {
		t.Fatalf("expected session tool, got %s", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	if !strings.Contains(joined, "--supervisor doe") {
		t.Fatalf("supervisor must be passed through, args: %v", runner.args)
	}
	if _, ok := sessions["doe-exam"]; !ok {
		t.Fatalf("expected decoded session map, got %v", sessions)
	}
}

func TestKillAPISessionBlocksForTokenLifetime(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	revoked := token.NewRevocationList(client)
	service := NewService(&fakeRunner{}, revoked, time.Hour)
	ctx := context.Background()

	if err := service.KillAPISession(ctx, "jti-1"); err != nil {
		t.Fatalf("kill api session: %v", err)
	}
	isRevoked, err := revoked.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if !isRevoked {
		t.Fatalf("killed session must be revoked")
	}

	mr.FastForward(2 * time.Hour)
	isRevoked, err = revoked.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if isRevoked {
		t.Fatalf("block must lapse once every token carrying the ID has expired")
	}
}

func TestKillAPISessionPermanentWithoutExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	revoked := token.NewRevocationList(client)
	service := NewService(&fakeRunner{}, revoked, 0)
	ctx := context.Background()

	if err := service.KillAPISession(ctx, "jti-2"); err != nil {
		t.Fatalf("kill api session: %v", err)
	}
	mr.FastForward(30 * 24 * time.Hour)

	isRevoked, err := revoked.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if !isRevoked {
		t.Fatalf("without token expiry the block must be permanent")
	}
}
