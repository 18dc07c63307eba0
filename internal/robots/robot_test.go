package robots_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/uci-crawler/internal/robots"
)

type recordingRecorder struct {
	failures []string
}

func (r *recordingRecorder) RecordRobotsFailure(host string, err *robots.RobotsError) {
	r.failures = append(r.failures, host)
}

func TestCachedRobot_AllowedByDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	}))
	defer server.Close()

	robot := robots.NewCachedRobot(server.Client(), "uci-crawler/1.0", nil)
	target, _ := url.Parse(server.URL + "/public/page")

	if !robot.Allowed(context.Background(), *target) {
		t.Error("expected /public/page to be allowed")
	}
}

func TestCachedRobot_DisallowedPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	}))
	defer server.Close()

	robot := robots.NewCachedRobot(server.Client(), "uci-crawler/1.0", nil)
	target, _ := url.Parse(server.URL + "/private/secret")

	if robot.Allowed(context.Background(), *target) {
		t.Error("expected /private/secret to be disallowed")
	}
}

func TestCachedRobot_FetchFailureAllowsAll(t *testing.T) {
	recorder := &recordingRecorder{}
	robot := robots.NewCachedRobot(&http.Client{Timeout: time.Millisecond}, "uci-crawler/1.0", recorder)
	target, _ := url.Parse("http://127.0.0.1:1/anything")

	if !robot.Allowed(context.Background(), *target) {
		t.Error("expected fetch failure to resolve to allow-all")
	}
	if len(recorder.failures) != 1 {
		t.Errorf("expected one recorded failure, got %d", len(recorder.failures))
	}
}

func TestCachedRobot_CachesPerHost(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits++
		w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	}))
	defer server.Close()

	robot := robots.NewCachedRobot(server.Client(), "uci-crawler/1.0", nil)
	first, _ := url.Parse(server.URL + "/a")
	second, _ := url.Parse(server.URL + "/b")

	robot.Allowed(context.Background(), *first)
	robot.Allowed(context.Background(), *second)

	if hits != 1 {
		t.Errorf("expected exactly one robots.txt fetch, got %d", hits)
	}
}

func TestCachedRobot_404AllowsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	robot := robots.NewCachedRobot(server.Client(), "uci-crawler/1.0", nil)
	target, _ := url.Parse(server.URL + "/anything")

	if !robot.Allowed(context.Background(), *target) {
		t.Error("expected missing robots.txt to resolve to allow-all")
	}
}
