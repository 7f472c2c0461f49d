package printout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"syscall"
	"time"

	"github.com/disintegration/imaging"

	"tastytrail/views"
)

const (
	maxPhotoBytes     = 8 << 20
	maxPhotoPixels    = 40_000_000
	maxPhotoRedirects = 3
	photoMaxPx        = 1200
)

var (
	errBlockedAddress = errors.New("photo host is not a public address")
	errPhotoTooLarge  = errors.New("photo too large")
)

// 100.64.0.0/10 carrier-grade NAT space is not covered by netip.Addr.IsPrivate.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// NewPhotoClient returns the client used to fetch recipe photos. It only
// dials public unicast addresses, checked after DNS resolution, and follows
// at most maxPhotoRedirects redirects.
func NewPhotoClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second, Control: dialPublicOnly}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxPhotoRedirects {
				return fmt.Errorf("photo: stopped after %d redirects", len(via))
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return fmt.Errorf("photo: redirect to unsupported scheme %q", req.URL.Scheme)
			}
			return nil
		},
	}
}

func dialPublicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("photo dial %q: %w", address, err)
	}
	if !publicAddr(ip) {
		return fmt.Errorf("photo dial %s: %w", ip, errBlockedAddress)
	}
	return nil
}

func publicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case !ip.IsValid(),
		ip.IsUnspecified(),
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast():
		return false
	}
	return !sharedAddressSpace.Contains(ip)
}

// loadPhoto fetches and decodes a recipe photo, scaled down to at most
// photoMaxPx on its longer side. Local /static/ paths and an empty URL are
// served from the embedded assets.
func (h *Handler) loadPhoto(ctx context.Context, imageURL string) (image.Image, error) {
	rc, err := h.openPhoto(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, err := decodePhoto(rc)
	if err != nil {
		return nil, err
	}
	return imaging.Fit(img, photoMaxPx, photoMaxPx, imaging.Lanczos), nil
}

// decodePhoto reads at most maxPhotoBytes and refuses images whose header
// declares more than maxPhotoPixels before decoding any pixel data.
func decodePhoto(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", errPhotoTooLarge, maxPhotoBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPhotoPixels {
		return nil, fmt.Errorf("%w: %dx%d", errPhotoTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return img, nil
}

func (h *Handler) openPhoto(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	switch {
	case imageURL == "":
		return views.Static().Open("food_bg.png")
	case strings.HasPrefix(imageURL, "/static/"):
		return views.Static().Open(strings.TrimPrefix(imageURL, "/static/"))
	case strings.HasPrefix(imageURL, "http://"), strings.HasPrefix(imageURL, "https://"):
	default:
		return nil, fmt.Errorf("unsupported photo url %q: %w", imageURL, fs.ErrNotExist)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.photos.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch photo: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
