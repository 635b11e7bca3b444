package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

// ValkeyClient backs the dedup seen-set and the fetch adapter's cursor
// bookkeeping. All mutation goes through atomic single-key commands.
type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		client, err := newValkeyClient()
		if err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to connect to Valkey: %w", err))
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func newValkeyClient() (valkey.Client, error) {
	valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
	valkeyPassword := os.Getenv("VALKEY_PASSWORD")
	useTLS := os.Getenv("VALKEY_TLS") == "true"

	opts := valkey.ClientOption{
		InitAddress: []string{
			valkeyAddr,
		},
		Password:         valkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		return nil, err
	}

	return client, nil
}

func (vc *ValkeyClient) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyClient] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	vc.Client.Close()

	client, err := newValkeyClient()
	if err != nil {
		panic(fmt.Errorf("[ValkeyClient] failed to recreate Valkey client: %w", err))
	}

	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
	vc.Client = client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Error: Valkey client is not initialized")
	}
	return valkeyInstance
}

// SetIfAbsent performs a single SET NX EX: true means the key was absent and
// is now claimed, false means another caller already holds it. Never a
// separate check-then-set.
func (vc *ValkeyClient) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	cmd := vc.Client.B().Set().Key(key).Value("1").Nx().
		ExSeconds(int64(ttl.Seconds())).Build()

	res := vc.DoWithRetry(ctx, cmd, 3)
	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			// NX failed: key already present.
			return false, nil
		}
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return false, err
	}

	return true, nil
}

func (vc *ValkeyClient) Exists(ctx context.Context, key string) (bool, error) {
	res := vc.DoWithRetry(ctx, vc.Client.B().Exists().Key(key).Build(), 3)
	if err := res.Error(); err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return false, err
	}

	count, err := res.AsInt64()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Cursor bookkeeping for the platform fetch adapter.

func (vc *ValkeyClient) SetCursor(ctx context.Context, key, value string) error {
	res := vc.DoWithRetry(ctx, vc.Client.B().Set().Key(key).Value(value).Build(), 3)
	if err := res.Error(); err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return err
	}
	return nil
}

func (vc *ValkeyClient) GetCursor(ctx context.Context, key string) (string, error) {
	res := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(key).Build(), 3)
	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return "", nil
		}
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return "", err
	}

	return res.ToString()
}

func (vc *ValkeyClient) IsHealthy(ctx context.Context) bool {
	return vc.Client.Do(ctx, vc.Client.B().Ping().Build()).Error() == nil
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
