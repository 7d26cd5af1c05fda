// Public domain.

package sdss_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrn/AST542/sdss"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/require"
)

func TestCutoutURL(t *testing.T) {
	var e coord.Equa
	e.RA = unit.RAFromDeg(180)
	e.Dec = unit.AngleFromDeg(45)
	got := sdss.CutoutURL(e, sdss.Options{})
	want := sdss.CutoutBase + "?dec=45.000000&height=512&ra=180.000000&scale=0.4&width=512"
	if got != want {
		t.Fatalf("default options:\ngot  %s\nwant %s", got, want)
	}
	got = sdss.CutoutURL(e, sdss.Options{Scale: .2, Width: 64, Height: 32, Opt: "GL"})
	want = sdss.CutoutBase + "?dec=45.000000&height=32&opt=GL&ra=180.000000&scale=0.2&width=64"
	if got != want {
		t.Fatalf("explicit options:\ngot  %s\nwant %s", got, want)
	}
}

func TestFetch(t *testing.T) {
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0, 1, 2, 3}
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/img":
				w.Write(jpeg)
			case "/html":
				w.Write([]byte("<!DOCTYPE html><html><body>no such field</body></html>"))
			default:
				http.NotFound(w, r)
			}
		}))
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "target.jpg")
	require.NoError(t, sdss.Fetch(srv.URL+"/img", out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, jpeg, b)

	// an HTML error page must not land on disk as an image
	htmlOut := filepath.Join(dir, "err.jpg")
	require.Error(t, sdss.Fetch(srv.URL+"/html", htmlOut))
	_, err = os.Stat(htmlOut)
	require.True(t, os.IsNotExist(err), "error page was written to disk")

	require.Error(t, sdss.Fetch(srv.URL+"/missing", filepath.Join(dir, "x.jpg")))
}
