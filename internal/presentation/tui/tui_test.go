package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/cortex/internal/presentation/tui"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionSwatch(t *testing.T) {
	got := tui.RegionSwatch(domain.Region{ID: "motor", Label: "Motor Cortex", Color: "#ffe66d"})
	assert.Contains(t, got, "motor")
	assert.Contains(t, got, "Motor Cortex")
	assert.Contains(t, got, "██")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Equal(t, 6, strings.Count(buf.String(), "\n"))
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(80)
	require.NoError(t, err)

	out, err := render("# Memory\n\n- **Dog** _motor_")
	require.NoError(t, err)
	assert.Contains(t, out, "Memory")
	assert.Contains(t, out, "Dog")
}
