package yolov3

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/inference"
)

type stubNetwork struct{ closed bool }

func (s *stubNetwork) Forward(*tensor.Dense) ([]inference.OutputTensor, error) { return nil, nil }
func (s *stubNetwork) Close() error                                            { s.closed = true; return nil }

func writeCfg(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yolov3.cfg")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewModelRequiresLoader(t *testing.T) {
	_, err := NewModel(nil)
	assert.Error(t, err)
}

func TestInitializeModel(t *testing.T) {
	net := &stubNetwork{}
	var gotModel, gotCfg string
	m, err := NewModel(func(modelPath, configPath string) (inference.Network, error) {
		gotModel, gotCfg = modelPath, configPath
		return net, nil
	})
	require.NoError(t, err)

	cfg := writeCfg(t, "[net]\nbatch=1\nwidth=608\nheight=416\nchannels=3\n")
	h, err := m.InitializeModel("yolov3.weights", cfg)
	require.NoError(t, err)

	assert.Equal(t, "yolov3.weights", gotModel)
	assert.Equal(t, cfg, gotCfg)
	assert.Equal(t, 608, h.Config.InputWidth)
	assert.Equal(t, 416, h.Config.InputHeight)
	assert.InDelta(t, 1.0/255.0, h.Config.ScaleFactor, 1e-12)

	require.NoError(t, h.Close())
	assert.True(t, net.closed)
	assert.NoError(t, h.Close(), "second close is a no-op")
}

func TestInitializeModelErrors(t *testing.T) {
	loaded := false
	okLoader := func(string, string) (inference.Network, error) {
		loaded = true
		return &stubNetwork{}, nil
	}

	tests := []struct {
		name   string
		cfg    string
		loader inference.Loader
		want   error
	}{
		{"missing height", "[net]\nwidth=416\n", okLoader, common.ErrConfigMissing},
		{"empty cfg", "", okLoader, common.ErrConfigMissing},
		{"bad width", "width=abc\nheight=416\n", okLoader, common.ErrConfigParse},
		{"zero height", "width=416\nheight=0\n", okLoader, common.ErrConfigParse},
		{
			"engine rejects model",
			"width=416\nheight=416\n",
			func(string, string) (inference.Network, error) { return nil, errors.New("bad weights") },
			common.ErrModelLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded = false
			m, err := NewModel(tt.loader)
			require.NoError(t, err)

			_, err = m.InitializeModel("w", writeCfg(t, tt.cfg))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			if tt.want != common.ErrModelLoad {
				assert.False(t, loaded, "network must not load when the cfg is invalid")
			}
		})
	}

	m, err := NewModel(okLoader)
	require.NoError(t, err)
	_, err = m.InitializeModel("w", filepath.Join(t.TempDir(), "absent.cfg"))
	assert.True(t, errors.Is(err, common.ErrConfigMissing))
}
