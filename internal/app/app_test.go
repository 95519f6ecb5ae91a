package app_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pccclearclinic/form-filling-template/internal/app"
	"github.com/pccclearclinic/form-filling-template/internal/config"
	"github.com/pccclearclinic/form-filling-template/pkg/delivery"
	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
	"github.com/pccclearclinic/form-filling-template/pkg/testsupport"
)

func TestBuildDryRunGenerates(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	a, err := app.Build(cfg, nil, app.WithDryRun(true), app.WithEngineOptions(engine.WithClock(testsupport.Clock())))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })

	result, err := a.Assembler.Generate(context.Background(), engine.Request{
		Document: registry.FeeWaiver,
		Record:   testsupport.SampleRecord(nil),
	})
	require.NoError(t, err)
	require.Equal(t, testsupport.FixedDate, testsupport.MustValues(t, result.Data).Text["Date"])
}

func TestBuildSanitizeMarkupFromConfig(t *testing.T) {
	t.Parallel()

	address := "Apt <b>4</b> & <Rear>"
	record := testsupport.SampleRecord(map[string]intake.Value{"streetAddress": intake.Text(address)})
	cases := []struct {
		environ map[string]string
		want    string
	}{
		{environ: map[string]string{}, want: address},
		{environ: map[string]string{"FORMFILL_SANITIZE_MARKUP": "true"}, want: "Apt 4 & "},
	}
	for _, tc := range cases {
		cfg, err := config.LoadFrom(tc.environ)
		require.NoError(t, err)
		a, err := app.Build(cfg, nil, app.WithDryRun(true))
		require.NoError(t, err)

		result, err := a.Assembler.Generate(context.Background(), engine.Request{
			Document: registry.StatewidePacket,
			Record:   record,
		})
		require.NoError(t, err)
		require.Equal(t, tc.want, testsupport.MustValues(t, result.Data).Text["Mailing address"])
		require.NoError(t, a.Close())
	}
}

func TestBuildSQLiteCounter(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "counter.db")
	cfg, err := config.LoadFrom(map[string]string{
		"FORMFILL_COUNTER_BACKEND":     "sqlite",
		"FORMFILL_COUNTER_SQLITE_PATH": dbPath,
	})
	require.NoError(t, err)

	// Memory templates via engine options keep the configured counter live.
	dry, err := engine.DryRun(testsupport.Registry(t))
	require.NoError(t, err)
	a, err := app.Build(cfg, nil, app.WithEngineOptions(dry...))
	require.NoError(t, err)

	result, err := a.Assembler.Generate(context.Background(), engine.Request{
		Document: registry.StatewidePacket,
		Record:   testsupport.SampleRecord(nil),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.Assembler.Deliver(context.Background(), a.Dispatcher(delivery.WriterSink{W: &buf}), result))
	require.NoError(t, a.Close())

	store, err := delivery.OpenSQLite(dbPath, "statewidePacket")
	require.NoError(t, err)
	defer store.Close()
	count, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestBuildRejectsMissingRegistry(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFrom(map[string]string{
		"FORMFILL_REGISTRY": filepath.Join(t.TempDir(), "missing.yaml"),
	})
	require.NoError(t, err)

	_, err = app.Build(cfg, nil)
	require.Error(t, err)
}
