package model

import "testing"

func TestParsePoolRef(t *testing.T) {
	tests := []struct {
		name    string
		poolID  string
		want    PoolRef
		wantErr bool
	}{
		{
			name:   "underscore separator",
			poolID: "eth_0xabc123",
			want:   PoolRef{Network: "eth", PoolAddress: "0xabc123"},
		},
		{
			name:   "colon separator",
			poolID: "solana:9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
			want:   PoolRef{Network: "solana", PoolAddress: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"},
		},
		{
			name:    "no separator",
			poolID:  "ethereum",
			wantErr: true,
		},
		{
			name:    "too many parts",
			poolID:  "a:b:c",
			wantErr: true,
		},
		{
			name:    "empty network",
			poolID:  "_0xabc",
			wantErr: true,
		},
		{
			name:    "empty address",
			poolID:  "eth_",
			wantErr: true,
		},
		{
			name:    "empty string",
			poolID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePoolRef(tt.poolID)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePoolRef(%q) = %+v, want error", tt.poolID, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePoolRef(%q) failed: %v", tt.poolID, err)
			}
			if got != tt.want {
				t.Errorf("ParsePoolRef(%q) = %+v, want %+v", tt.poolID, got, tt.want)
			}
		})
	}
}
