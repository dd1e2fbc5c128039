package toolset

import (
	"net/http"
	"testing"
)

func TestAuthHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  BaseConfig
		want http.Header
	}{
		{
			name: "none produces no headers",
			cfg:  BaseConfig{AuthType: AuthNone, AuthToken: "T"},
			want: nil,
		},
		{
			name: "absent auth type produces no headers",
			cfg:  BaseConfig{AuthToken: "T"},
			want: nil,
		},
		{
			name: "bearer with default header",
			cfg:  BaseConfig{AuthType: AuthBearer, AuthToken: "T"},
			want: http.Header{"Authorization": {"Bearer T"}},
		},
		{
			name: "bearer with custom header",
			cfg:  BaseConfig{AuthType: AuthBearer, AuthHeader: "X-Token", AuthToken: "T"},
			want: http.Header{"X-Token": {"Bearer T"}},
		},
		{
			name: "bearer without token produces no headers",
			cfg:  BaseConfig{AuthType: AuthBearer},
			want: nil,
		},
		{
			name: "api key is sent verbatim",
			cfg:  BaseConfig{AuthType: AuthAPIKey, AuthHeader: "X-Key", AuthToken: "T"},
			want: http.Header{"X-Key": {"T"}},
		},
		{
			name: "api key under default header",
			cfg:  BaseConfig{AuthType: AuthAPIKey, AuthToken: "T"},
			want: http.Header{"Authorization": {"T"}},
		},
		{
			name: "oauth prefers access token over plain token",
			cfg:  BaseConfig{AuthType: AuthOAuth, AuthToken: "T", OAuthAccessToken: "O"},
			want: http.Header{"Authorization": {"Bearer O"}},
		},
		{
			name: "oauth falls back to plain token as bearer",
			cfg:  BaseConfig{AuthType: AuthOAuth, AuthToken: "T"},
			want: http.Header{"Authorization": {"Bearer T"}},
		},
		{
			name: "oauth without any credential produces no headers",
			cfg:  BaseConfig{AuthType: AuthOAuth},
			want: nil,
		},
		{
			name: "oauth ignores custom header name",
			cfg:  BaseConfig{AuthType: AuthOAuth, AuthHeader: "X-Key", OAuthAccessToken: "O"},
			want: http.Header{"Authorization": {"Bearer O"}},
		},
		{
			name: "smithery behaves like oauth",
			cfg:  BaseConfig{AuthType: AuthSmithery, AuthToken: "T"},
			want: http.Header{"Authorization": {"Bearer T"}},
		},
		{
			name: "unknown auth type produces no headers",
			cfg:  BaseConfig{AuthType: AuthType("custom"), AuthToken: "T"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AuthHeaders(&tt.cfg)
			if len(got) != len(tt.want) {
				t.Fatalf("AuthHeaders() = %v, want %v", got, tt.want)
			}
			for name, values := range tt.want {
				if got.Get(name) != values[0] {
					t.Fatalf("header %s = %q, want %q", name, got.Get(name), values[0])
				}
			}
		})
	}
}

func TestAuthHeadersNilConfig(t *testing.T) {
	t.Parallel()
	if got := AuthHeaders(nil); got != nil {
		t.Fatalf("AuthHeaders(nil) = %v, want nil", got)
	}
}
