package handlers_test

import (
	"fmt"
	"testing"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
	"github.com/donaldgifford/esim-device-finder/internal/airalo/mocks"
	"github.com/donaldgifford/esim-device-finder/internal/engine"
	"github.com/donaldgifford/esim-device-finder/internal/i18n"
	"github.com/donaldgifford/esim-device-finder/pkg/logger"
)

var testCreds = airalo.Credentials{ClientID: "id", ClientSecret: "secret"}

type fixture struct {
	auth    *mocks.MockTokenFetcher
	catalog *mocks.MockDeviceFetcher
	svc     *engine.EmbedService
}

func newFixture(t *testing.T, locale string) *fixture {
	t.Helper()

	f := &fixture{
		auth:    mocks.NewMockTokenFetcher(t),
		catalog: mocks.NewMockDeviceFetcher(t),
	}
	f.svc = engine.NewEmbedService(
		f.auth,
		f.catalog,
		airalo.NewTokenCache(),
		testCreds,
		i18n.MustLoad(locale),
		engine.WithLogger(logger.Discard()),
	)
	return f
}

func catalogDevices() []airalo.Device {
	return []airalo.Device{
		{Name: "iPhone 12", Brand: "Apple", Model: "A2403"},
		{Name: "Galaxy S21", Brand: "Samsung", Model: "SM-G991"},
		{Name: "Pixel 7", Brand: "Google", Model: "GVU6C"},
	}
}

func phones(n int) []airalo.Device {
	out := make([]airalo.Device, n)
	for i := range out {
		out[i] = airalo.Device{Name: fmt.Sprintf("Phone %d", i), Brand: "Acme", Model: fmt.Sprintf("P%d", i)}
	}
	return out
}
