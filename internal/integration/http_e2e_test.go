//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "restohub/internal/adapters/http_server"
	redisad "restohub/internal/adapters/redis"
	"restohub/internal/app"
	"restohub/internal/content"
	"restohub/internal/domain"
	mysqlrepo "restohub/internal/storage/mysql"
)

// ---------- helpers ----------

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

type noCatalog struct{}

func (noCatalog) MenuItems(ctx context.Context, tenantID string) ([]domain.MenuItem, error) {
	return []domain.MenuItem{{ID: "m1", Name: "Gado-gado", Price: 25000}}, nil
}

func (noCatalog) Recommendations(ctx context.Context, tenantID, userID string) ([]domain.MenuItem, error) {
	return []domain.MenuItem{}, nil
}

// ---------- the test ----------

func TestE2E_HomepageEditingOverMySQL(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=restohub"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/restohub?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	repo := mysqlrepo.New(db).WithConflictCheck()
	store := app.NewCachedStore(repo, cache, time.Minute)
	sessions := content.NewRegistry(store, content.WithStoreTimeout(5*time.Second))
	t.Cleanup(sessions.Close)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Sessions: sessions,
		Pages:    app.NewPageService(sessions, noCatalog{}, cache, time.Minute, nil),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	base := ts.URL + "/v1/tenants/warung-1/homepage"

	// first read seeds the tenant
	resp, err := http.Get(base)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPatch, base+"/sections/hero-1", strings.NewReader(`{"headline":"Dari MySQL"}`))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	var edited domain.HomepageConfig
	if err := json.NewDecoder(resp.Body).Decode(&edited); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || edited.Version != 2 {
		t.Fatalf("PATCH status %d version %d", resp.StatusCode, edited.Version)
	}

	// the row is what the API answered with
	stored, err := repo.Get(context.Background(), "warung-1")
	if err != nil {
		t.Fatalf("repo.Get: %v", err)
	}
	hero, _ := stored.Section("hero-1")
	if hero.Props.(domain.HeroProps).Headline != "Dari MySQL" || stored.Version != 2 {
		t.Fatalf("unexpected row: %+v v%d", hero.Props, stored.Version)
	}

	// and the cache holds the same version
	cached, err := store.Get(context.Background(), "warung-1")
	if err != nil || cached.Version != 2 {
		t.Fatalf("cache: v%d err=%v", cached.Version, err)
	}

	resp, err = http.Get(ts.URL + "/v1/tenants/warung-1/page")
	if err != nil {
		t.Fatalf("GET page: %v", err)
	}
	defer resp.Body.Close()
	var page struct {
		Loading bool `json:"loading"`
		Views   []struct {
			Key   string          `json:"key"`
			Props json.RawMessage `json:"props"`
		} `json:"views"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Loading || len(page.Views) == 0 || page.Views[0].Key != "hero-1" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !strings.Contains(string(page.Views[0].Props), "Dari MySQL") {
		t.Fatalf("page does not reflect the edit: %s", page.Views[0].Props)
	}
}
