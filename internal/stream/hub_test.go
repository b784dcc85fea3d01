package stream

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/san-kum/orbitsim/internal/sim"
)

type fakeControls struct {
	mu     sync.Mutex
	speed  float64
	paused bool
}

func (f *fakeControls) SetSpeed(s float64) {
	f.mu.Lock()
	f.speed = s
	f.mu.Unlock()
}

func (f *fakeControls) SetPaused(p bool) {
	f.mu.Lock()
	f.paused = p
	f.mu.Unlock()
}

func (f *fakeControls) get() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speed, f.paused
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestHubHelloAndPublish(t *testing.T) {
	hub := NewHub(Hello{Names: []string{"a", "b"}, Colors: []string{"#ff0000", "#00ff00"}, G: 1, Dt: 0.01}, nil, quietLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv.URL)

	var hello Hello
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "hello" || len(hello.Names) != 2 || hello.Dt != 0.01 {
		t.Errorf("unexpected hello: %+v", hello)
	}
	if hub.Clients() != 1 {
		t.Errorf("expected 1 client, got %d", hub.Clients())
	}

	hub.Publish(sim.Frame{Tick: 7, Time: 0.07, Positions: []mgl32.Vec3{{1, 2, 3}, {-1, -2, -3}}})

	var frame FrameMessage
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if frame.Type != "frame" || frame.Tick != 7 {
		t.Errorf("unexpected frame header: %+v", frame)
	}
	if frame.Positions[1] != [3]float32{-1, -2, -3} {
		t.Errorf("positions = %v", frame.Positions)
	}
}

func TestHubControls(t *testing.T) {
	controls := &fakeControls{speed: 1}
	hub := NewHub(Hello{}, controls, quietLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv.URL)
	var hello Hello
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}

	if err := conn.WriteJSON(map[string]any{"speed": 4.0, "paused": true}); err != nil {
		t.Fatalf("write control: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if speed, paused := controls.get(); speed == 4 && paused {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	speed, paused := controls.get()
	t.Errorf("controls not applied: speed=%v paused=%v", speed, paused)
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(Hello{}, nil, quietLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv.URL)
	var hello Hello
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() > 0 && time.Now().Before(deadline) {
		hub.Publish(sim.Frame{Positions: []mgl32.Vec3{{0, 0, 0}}})
		time.Sleep(5 * time.Millisecond)
	}
	if n := hub.Clients(); n != 0 {
		t.Errorf("expected closed client to be dropped, %d remain", n)
	}
}

func TestServerServe(t *testing.T) {
	hub := NewHub(Hello{Names: []string{"x"}}, nil, quietLogger())
	s := &Server{Hub: hub, Logger: quietLogger()}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<canvas") {
		t.Errorf("unexpected index page: %d", resp.StatusCode)
	}

	conn := dial(t, "http://"+ln.Addr().String()+"/ws")
	var hello Hello
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
