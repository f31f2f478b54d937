package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
	"github.com/donaldgifford/esim-device-finder/internal/api/handlers"
)

func TestSearchHandler_Search(t *testing.T) {
	t.Parallel()

	okToken := func(f *fixture) {
		f.auth.On("FetchToken", mock.Anything, testCreds).
			Return(airalo.TokenGrant{Value: "tok", TTL: 24 * time.Hour}, nil).Once()
	}

	tests := []struct {
		name       string
		target     string
		setup      func(*fixture)
		wantStatus int
		wantBody   []string
	}{
		{
			name:   "matches brand case-insensitively",
			target: "/api/v1/devices/search?q=APPLE",
			setup: func(f *fixture) {
				okToken(f)
				f.catalog.On("FetchDevices", mock.Anything, "tok").Return(catalogDevices(), nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"total":1`, `"iPhone 12 (Apple)"`, `"model":"A2403"`},
		},
		{
			name:   "no match returns empty lists",
			target: "/api/v1/devices/search?q=nokia",
			setup: func(f *fixture) {
				okToken(f)
				f.catalog.On("FetchDevices", mock.Anything, "tok").Return(catalogDevices(), nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"total":0`, `"devices":[]`, `"lines":[]`},
		},
		{
			name:       "short query does not load the catalog",
			target:     "/api/v1/devices/search?q=a",
			setup:      func(_ *fixture) {},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"total":0`, `"devices":[]`},
		},
		{
			name:   "more than fifteen matches adds summary line",
			target: "/api/v1/devices/search?q=phone",
			setup: func(f *fixture) {
				okToken(f)
				f.catalog.On("FetchDevices", mock.Anything, "tok").Return(phones(16), nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"total":16`, `"Showing 15 of 16 results..."`},
		},
		{
			name:   "auth failure returns 503",
			target: "/api/v1/devices/search?q=iphone",
			setup: func(f *fixture) {
				f.auth.On("FetchToken", mock.Anything, testCreds).
					Return(airalo.TokenGrant{}, &airalo.AuthError{Kind: airalo.ErrInvalidResponse}).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   []string{"The search is not available at the moment."},
		},
		{
			name:   "catalog failure returns 502",
			target: "/api/v1/devices/search?q=iphone",
			setup: func(f *fixture) {
				okToken(f)
				f.catalog.On("FetchDevices", mock.Anything, "tok").
					Return(nil, &airalo.CatalogError{Kind: airalo.ErrTransport, Err: errors.New("timeout")}).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{"Could not load the devices."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, "en")
			tt.setup(f)

			_, api := humatest.New(t)
			handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(f.svc))

			resp := api.Get(tt.target)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, s := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), s)
			}
		})
	}
}
