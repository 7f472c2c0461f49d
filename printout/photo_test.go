package printout

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.Gray{Y: 200})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// withHeaderSize rewrites the IHDR dimensions of a PNG and fixes its CRC.
func withHeaderSize(data []byte, w, h uint32) []byte {
	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestDecodePhoto(t *testing.T) {
	img, err := decodePhoto(bytes.NewReader(smallPNG(t)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestDecodePhotoRejectsHugeDimensions(t *testing.T) {
	bomb := withHeaderSize(smallPNG(t), 12000, 12000)

	cfg, err := png.DecodeConfig(bytes.NewReader(bomb))
	require.NoError(t, err)
	require.Equal(t, 12000, cfg.Width)

	_, err = decodePhoto(bytes.NewReader(bomb))
	assert.ErrorIs(t, err, errPhotoTooLarge)
}

func TestDecodePhotoRejectsOversizedBody(t *testing.T) {
	_, err := decodePhoto(bytes.NewReader(make([]byte, maxPhotoBytes+1)))
	assert.ErrorIs(t, err, errPhotoTooLarge)
}

func TestPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"93.184.216.34":   true,
		"2606:4700::1111": true,
		"127.0.0.1":       false,
		"::1":             false,
		"10.1.2.3":        false,
		"172.16.0.9":      false,
		"192.168.1.1":     false,
		"169.254.169.254": false,
		"fe80::1":         false,
		"fd00::1":         false,
		"0.0.0.0":         false,
		"::":              false,
		"100.64.0.1":      false,
		"::ffff:10.0.0.1": false,
		"224.0.0.1":       false,
	}
	for addr, want := range cases {
		assert.Equal(t, want, publicAddr(netip.MustParseAddr(addr)), addr)
	}
}

func TestLoadPhotoRefusesInternalHosts(t *testing.T) {
	var hits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer internal.Close()

	h := New(nil, "", nil)
	_, err := h.loadPhoto(t.Context(), internal.URL+"/admin/flush-cache")
	assert.ErrorIs(t, err, errBlockedAddress)
	assert.Zero(t, hits.Load())
}

func TestPhotoClientLimitsRedirects(t *testing.T) {
	c := NewPhotoClient(0)
	next := httptest.NewRequest(http.MethodGet, "https://img.example/a.jpg", nil)

	assert.NoError(t, c.CheckRedirect(next, make([]*http.Request, maxPhotoRedirects-1)))
	assert.Error(t, c.CheckRedirect(next, make([]*http.Request, maxPhotoRedirects)))

	ftp := httptest.NewRequest(http.MethodGet, "https://img.example/a.jpg", nil)
	ftp.URL.Scheme = "ftp"
	assert.Error(t, c.CheckRedirect(ftp, nil))
}
