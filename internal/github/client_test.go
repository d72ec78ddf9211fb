package github

import (
	"context"
	"testing"
	"time"
)

func TestParseRepoFullName(t *testing.T) {
	tests := []struct {
		name      string
		fullName  string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "valid repo name",
			fullName:  "owner/repo",
			wantOwner: "owner",
			wantRepo:  "repo",
			wantErr:   false,
		},
		{
			name:      "org with dashes",
			fullName:  "my-org/my-repo",
			wantOwner: "my-org",
			wantRepo:  "my-repo",
			wantErr:   false,
		},
		{
			name:      "repo with multiple slashes",
			fullName:  "owner/repo/extra",
			wantOwner: "owner",
			wantRepo:  "repo/extra",
			wantErr:   false,
		},
		{
			name:     "missing slash",
			fullName: "noslash",
			wantErr:  true,
		},
		{
			name:     "empty string",
			fullName: "",
			wantErr:  true,
		},
		{
			name:     "empty owner",
			fullName: "/repo",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoFullName(tt.fullName)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRepoFullName(%q) expected error, got nil", tt.fullName)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseRepoFullName(%q) unexpected error: %v", tt.fullName, err)
				return
			}

			if owner != tt.wantOwner {
				t.Errorf("owner = %q, want %q", owner, tt.wantOwner)
			}
			if repo != tt.wantRepo {
				t.Errorf("repo = %q, want %q", repo, tt.wantRepo)
			}
		})
	}
}

func TestNewClient_WithToken(t *testing.T) {
	token := "explicit-token"
	client := NewClient(token, 5*time.Second)

	if client.token != token {
		t.Errorf("token = %q, want %q", client.token, token)
	}
	if client.client == nil {
		t.Error("client.client should not be nil")
	}
	if client.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", client.timeout)
	}
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient("t", 0)
	if client.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", client.timeout, defaultTimeout)
	}
}

func TestCallCtx_AppliesDeadline(t *testing.T) {
	client := NewClient("t", 5*time.Second)

	ctx, cancel := client.callCtx(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("callCtx should set a deadline even on a background context")
	}
	if until := time.Until(deadline); until <= 0 || until > 5*time.Second {
		t.Errorf("deadline %v from now, want within (0, 5s]", until)
	}
}

func TestCallCtx_KeepsEarlierDeadline(t *testing.T) {
	client := NewClient("t", time.Minute)

	parent, cancelParent := context.WithTimeout(context.Background(), time.Second)
	defer cancelParent()

	ctx, cancel := client.callCtx(parent)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("callCtx should set a deadline")
	}
	if until := time.Until(deadline); until > time.Second {
		t.Errorf("deadline %v from now, want the parent's tighter 1s bound", until)
	}
}
