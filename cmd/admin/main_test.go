package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a much longer name", 10, "a much ..."},
		{"日本語のお問い合わせ本文", 8, "日本語のお..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("Hello,\n\n  world\tagain "); got != "Hello, world again" {
		t.Errorf("oneLine = %q", got)
	}
}

func newAuthService(t *testing.T) (service.AuthService, *repository.Memory) {
	t.Helper()
	mem := repository.NewMemory()
	return service.NewAuthService(mem), mem
}

// prompter answers successive prompts with answers, in order.
func prompter(answers ...string) func(string) ([]byte, error) {
	return func(string) ([]byte, error) {
		if len(answers) == 0 {
			return nil, io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}
}

func TestCreateAdmin_FromPipedStdin(t *testing.T) {
	svc, mem := newAuthService(t)
	var out bytes.Buffer
	src := passwordSource{in: strings.NewReader("piped password 1\n")}

	err := cmdCreateAdmin(context.Background(), svc, []string{"Owner@Example.com"}, src, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Admin created")
	assert.Contains(t, out.String(), "owner@example.com")

	u, err := mem.FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), u.Email, "piped password 1")
	assert.NoError(t, err)
}

func TestCreateAdmin_EnvWinsOverPrompt(t *testing.T) {
	svc, _ := newAuthService(t)
	src := passwordSource{
		env:    "from the environment",
		in:     strings.NewReader("ignored line\n"),
		prompt: prompter("never", "asked"),
	}

	require.NoError(t, cmdCreateAdmin(context.Background(), svc, []string{"a@example.com"}, src, io.Discard))
	_, err := svc.Authenticate(context.Background(), "a@example.com", "from the environment")
	assert.NoError(t, err)
}

func TestCreateAdmin_PromptsTwice(t *testing.T) {
	svc, _ := newAuthService(t)
	src := passwordSource{prompt: prompter("typed twice ok", "typed twice ok")}

	require.NoError(t, cmdCreateAdmin(context.Background(), svc, []string{"a@example.com"}, src, io.Discard))
	_, err := svc.Authenticate(context.Background(), "a@example.com", "typed twice ok")
	assert.NoError(t, err)
}

func TestCreateAdmin_RejectsMismatchedPrompts(t *testing.T) {
	svc, mem := newAuthService(t)
	src := passwordSource{prompt: prompter("first attempt!!", "second attempt!")}

	err := cmdCreateAdmin(context.Background(), svc, []string{"a@example.com"}, src, io.Discard)
	require.EqualError(t, err, "passwords do not match")
	_, err = mem.FindByEmail(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateAdmin_RejectsShortPassword(t *testing.T) {
	svc, mem := newAuthService(t)

	cases := map[string]passwordSource{
		"env":    {env: "elevenchars"},
		"piped":  {in: strings.NewReader("short\n")},
		"prompt": {prompt: prompter("elevenchars", "elevenchars")},
		// counted in characters, not bytes
		"multibyte": {in: strings.NewReader("パスワード短い\n")},
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			err := cmdCreateAdmin(context.Background(), svc, []string{"a@example.com"}, src, io.Discard)
			assert.EqualError(t, err, "password must be at least 12 characters")
		})
	}
	_, err := mem.FindByEmail(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateAdmin_TwelveCharactersIsEnough(t *testing.T) {
	svc, _ := newAuthService(t)
	require.NoError(t, cmdCreateAdmin(context.Background(), svc, []string{"a@example.com"}, passwordSource{env: "twelve chars"}, io.Discard))
}

func TestCreateAdmin_Duplicate(t *testing.T) {
	svc, _ := newAuthService(t)
	src := passwordSource{env: "long enough password"}
	require.NoError(t, cmdCreateAdmin(context.Background(), svc, []string{"a@example.com"}, src, io.Discard))

	err := cmdCreateAdmin(context.Background(), svc, []string{"A@example.com"}, src, io.Discard)
	assert.EqualError(t, err, "an admin with email A@example.com already exists")
}

func TestCreateAdmin_BadArguments(t *testing.T) {
	svc, _ := newAuthService(t)
	src := passwordSource{env: "long enough password"}

	assert.Error(t, cmdCreateAdmin(context.Background(), svc, nil, src, io.Discard))
	assert.Error(t, cmdCreateAdmin(context.Background(), svc, []string{"not-an-email"}, src, io.Discard))
}

func TestReadPassword_EmptyStdin(t *testing.T) {
	_, err := readPassword(passwordSource{in: strings.NewReader("")})
	assert.ErrorIs(t, err, io.EOF)
}

func TestRun_UsageExitCodes(t *testing.T) {
	assert.Equal(t, 1, run(nil))
	assert.Equal(t, 0, run([]string{"help"}))
}
