package types

import "testing"

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"file backend", Config{Backend: BackendFile, DataDir: "/tmp/data"}, nil},
		{"sqlite backend", Config{Backend: BackendSQLite, DataDir: "/tmp/data"}, nil},
		{"empty backend", Config{DataDir: "/tmp/data"}, ErrBackendEmpty},
		{"unknown backend", Config{Backend: "postgres"}, ErrBackendUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
