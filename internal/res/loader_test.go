package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y), A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func TestLoadArtifactDataURL(t *testing.T) {
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 40, 20))

	a, err := NewLoader("").LoadArtifact(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "PNG", a.ImageType)
	assert.Equal(t, 40, a.Width)
	assert.Equal(t, 20, a.Height)
}

func TestLoadArtifactSVGDataURL(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50" fill="#336699"/></svg>`
	ref := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	a, err := NewLoader("").LoadArtifact(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "PNG", a.ImageType)
	assert.Equal(t, 512, a.Width)
	assert.Equal(t, 256, a.Height)
}

func TestLoadArtifactTranscodesBMP(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage(8, 6)))
	path := filepath.Join(dir, "seal.bmp")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	a, err := NewLoader("").LoadArtifact(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "PNG", a.ImageType)
	assert.Equal(t, 8, a.Width)

	_, format, err := image.DecodeConfig(bytes.NewReader(a.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestLoadArtifactSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "signature.png"), pngBytes(t, 10, 10), 0o644))

	l := NewLoader("")
	l.AddSearchPath(dir)

	a, err := l.LoadArtifact(context.Background(), "assets/signature.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "signature.png"), a.Ref)
}

func TestLoadArtifactRemoteIsCached(t *testing.T) {
	var hits atomic.Int32
	body := pngBytes(t, 30, 30)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/assets/")
	for i := 0; i < 3; i++ {
		a, err := l.LoadArtifact(context.Background(), "logo.png")
		require.NoError(t, err)
		assert.Equal(t, 30, a.Width)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoadArtifactRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewLoader("").LoadArtifact(context.Background(), srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "404")
}

func TestLoadArtifactFailures(t *testing.T) {
	l := NewLoader("")
	ctx := context.Background()

	_, err := l.LoadArtifact(ctx, "")
	assert.Error(t, err)

	_, err = l.LoadArtifact(ctx, filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorContains(t, err, "resource not found")

	_, err = l.LoadArtifact(ctx, "data:text/plain,hello")
	assert.ErrorContains(t, err, "failed to decode artifact")
}

func TestFit(t *testing.T) {
	a := &Artifact{Width: 200, Height: 100}

	w, h := a.Fit(100, 100)
	assert.InDelta(t, 100, w, 1e-9)
	assert.InDelta(t, 50, h, 1e-9)

	w, h = a.Fit(300, 60)
	assert.InDelta(t, 120, w, 1e-9)
	assert.InDelta(t, 60, h, 1e-9)

	var missing *Artifact
	w, h = missing.Fit(10, 10)
	assert.Zero(t, w)
	assert.Zero(t, h)
}
