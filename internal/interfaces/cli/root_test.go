package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/druglike/internal/application/screening"
	"github.com/turtacn/druglike/internal/chem/toolkit"
	"github.com/turtacn/druglike/internal/config"
	httpapi "github.com/turtacn/druglike/internal/interfaces/http"
	"github.com/turtacn/druglike/internal/interfaces/http/handlers"
	"github.com/turtacn/druglike/internal/testutil"
	"github.com/turtacn/druglike/pkg/errors"
	"github.com/turtacn/druglike/pkg/types/molecule"
)

const ethanolReport = `SMILES: CCO
Molecular Weight: 46.07 < 500 -> Pass
LogP: -0.00 < 5 -> Pass
Hydrogen Bond Donors (HBD): 1 < 5 -> Pass
Hydrogen Bond Acceptors (HBA): 1 < 10 -> Pass
Overall: Passes Rule of 5
----------------------------------------
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd, s := newRoot()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := s.execute(context.Background(), cmd)
	return out.String(), err
}

func TestExecute_ClosesContextWhenCommandFails(t *testing.T) {
	cmd, s := newRoot()
	closed := 0
	pre := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if err := pre(c, args); err != nil {
			return err
		}
		s.cc.closers = append(s.cc.closers, func() error { closed++; return nil })
		return nil
	}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"evaluate", "C1CC"})

	err := s.execute(context.Background(), cmd)
	var invalid *InvalidItemsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, closed)

	assert.NoError(t, s.close(), "closing twice is a no-op")
	assert.Equal(t, 1, closed)
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "druglike", cmd.Use)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"evaluate", "depict", "version"} {
		assert.True(t, names[want], want)
	}
	for _, flag := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout", "server"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
}

func TestEvaluate_Text(t *testing.T) {
	out, err := runCLI(t, "--no-color", "evaluate", "CCO")
	require.NoError(t, err)
	assert.Equal(t, ethanolReport, out)
}

func TestEvaluate_InvalidContinuesAndFails(t *testing.T) {
	out, err := runCLI(t, "evaluate", "C1CC", "CCO")
	require.Error(t, err)

	var invalid *InvalidItemsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Invalid)
	assert.Equal(t, 2, invalid.Total)

	assert.True(t, strings.HasPrefix(out, "SMILES: C1CC\nError: Invalid SMILES string provided."), out)
	assert.True(t, strings.HasSuffix(out, ethanolReport))
}

func TestEvaluate_DefaultBatchWritesGrid(t *testing.T) {
	grid := filepath.Join(t.TempDir(), "grid.svg")
	out, err := runCLI(t, "evaluate", "--depict", grid)
	require.NoError(t, err)

	smiles, _ := screening.DefaultBatch()
	for _, s := range smiles {
		assert.Contains(t, out, "SMILES: "+s+"\n")
	}
	assert.Contains(t, out, "Molecular Weight: 451.38 < 500 -> Pass")
	assert.Equal(t, 2, strings.Count(out, "Overall: "))

	svg, err := os.ReadFile(grid)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `width="600"`)
	assert.Contains(t, string(svg), ">Molecule 2</text>")
}

func TestEvaluate_DefaultBatchUsesConfiguredOutput(t *testing.T) {
	grid := filepath.Join(t.TempDir(), "configured.svg")
	t.Setenv("DRUGLIKE_DEPICTION_OUTPUT", grid)

	_, err := runCLI(t, "evaluate")
	require.NoError(t, err)
	assert.FileExists(t, grid)
}

func TestEvaluate_ExplicitEmptyDepictDisablesGrid(t *testing.T) {
	dir := t.TempDir()
	grid := filepath.Join(dir, "never.svg")
	t.Setenv("DRUGLIKE_DEPICTION_OUTPUT", grid)

	_, err := runCLI(t, "evaluate", "--depict=")
	require.NoError(t, err)
	assert.NoFileExists(t, grid)
}

func TestEvaluate_JSON(t *testing.T) {
	out, err := runCLI(t, "-o", "json", "evaluate", "CCO", "")
	require.Error(t, err)

	var items []molecule.BatchItemDTO
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Outcome)
	assert.Equal(t, "C2H6O", items[0].Outcome.Formula)
	require.NotNil(t, items[1].Error)
	assert.Equal(t, "MOL_001", items[1].Error.Code)
}

func TestEvaluate_UnknownFormat(t *testing.T) {
	_, err := runCLI(t, "-o", "yaml", "evaluate", "CCO")
	assert.ErrorContains(t, err, "unknown report format")
}

func TestEvaluate_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "druglike.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  format: json\n"), 0o600))

	out, err := runCLI(t, "-c", path, "evaluate", "CCO")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["), out)
}

func TestEvaluate_MissingConfigFile(t *testing.T) {
	_, err := runCLI(t, "-c", filepath.Join(t.TempDir(), "absent.yaml"), "evaluate", "CCO")
	assert.ErrorContains(t, err, "config initialization failed")
}

func TestEvaluate_RemoteServer(t *testing.T) {
	svc := screening.NewService(testutil.NewEvaluator(t), nil, screening.WithRenderer(toolkit.New()))
	srv := httptest.NewServer(httpapi.NewRouter(httpapi.RouterConfig{
		Ro5Handler:       handlers.NewRo5Handler(svc, 10, nil),
		DepictionHandler: handlers.NewDepictionHandler(svc, config.DepictionConfig{}, 10, nil),
	}))
	defer srv.Close()

	grid := filepath.Join(t.TempDir(), "remote.svg")
	out, err := runCLI(t, "--server", srv.URL, "evaluate", "--depict", grid, "CCO")
	require.NoError(t, err)
	assert.Equal(t, ethanolReport, out)

	svg, err := os.ReadFile(grid)
	require.NoError(t, err)
	assert.Contains(t, string(svg), ">Molecule 1</text>")
}

func TestDepict(t *testing.T) {
	grid := filepath.Join(t.TempDir(), "d.svg")
	_, err := runCLI(t, "depict", "--out", grid, "--per-row", "3", "--size", "200x250",
		"--legend", "ethanol", "--legend", "benzene", "CCO", "c1ccccc1")
	require.NoError(t, err)

	svg, err := os.ReadFile(grid)
	require.NoError(t, err)
	// two structures never widen the grid past two cells
	assert.Contains(t, string(svg), `width="400" height="250"`)
	assert.Contains(t, string(svg), ">benzene</text>")
}

func TestDepict_Stdout(t *testing.T) {
	out, err := runCLI(t, "depict", "--out", "-", "CCO")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
}

func TestDepict_BadOptions(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "depict", "--out", filepath.Join(dir, "a.svg"), "--size", "big", "CCO")
	assert.ErrorContains(t, err, "invalid --size")

	bad := filepath.Join(dir, "b.svg")
	_, err = runCLI(t, "depict", "--out", bad, "--legend", "one", "CCO", "CC")
	assert.ErrorContains(t, err, "legends")
	assert.NoFileExists(t, bad)
}

func TestDepict_OversizedStructure(t *testing.T) {
	grid := filepath.Join(t.TempDir(), "big.svg")
	_, err := runCLI(t, "depict", "--out", grid, strings.Repeat("C", 4000))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	assert.NoFileExists(t, grid)
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "druglike "+Version+"\n"))
}
