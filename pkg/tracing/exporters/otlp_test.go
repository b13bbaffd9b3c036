package exporters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTLPConfig_normalize(t *testing.T) {
	tests := []struct {
		name     string
		config   OTLPConfig
		expected OTLPConfig
		wantErr  bool
	}{
		{
			name:     "defaults",
			config:   OTLPConfig{Endpoint: "collector:4317"},
			expected: OTLPConfig{Endpoint: "collector:4317", Protocol: ProtocolGRPC, Timeout: defaultTimeout},
		},
		{
			name:     "http scheme is insecure",
			config:   OTLPConfig{Endpoint: "http://collector:4318", Protocol: "HTTP", Timeout: time.Second},
			expected: OTLPConfig{Endpoint: "collector:4318", Protocol: ProtocolHTTP, Insecure: true, Timeout: time.Second},
		},
		{
			name:     "https scheme keeps tls",
			config:   OTLPConfig{Endpoint: "https://collector:4318", Protocol: "http"},
			expected: OTLPConfig{Endpoint: "collector:4318", Protocol: ProtocolHTTP, Timeout: defaultTimeout},
		},
		{
			name:    "missing endpoint",
			config:  OTLPConfig{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.normalize()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewOTLPExporter_UnsupportedProtocol(t *testing.T) {
	_, err := NewOTLPExporter(context.Background(), OTLPConfig{Endpoint: "collector:4317", Protocol: "udp"})
	assert.ErrorContains(t, err, "unsupported OTLP protocol")
}
