package version

import (
	"encoding/json"
	"regexp"
	"runtime"
	"strings"
	"testing"
)

func TestVersionIsNotEmpty(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should not be empty")
	}
}

func TestVersionFollowsSemverOrDev(t *testing.T) {
	if Version == "dev" {
		return
	}
	semverRegex := regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	if !semverRegex.MatchString(Version) {
		t.Fatalf("Version should follow semver format, got: %s", Version)
	}
}

func TestStringReturnsFormattedString(t *testing.T) {
	str := String()
	for _, want := range []string{Version, "motiva", "commit", "go"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, want it to contain %q", str, want)
		}
	}
}

func TestShortReturnsVersion(t *testing.T) {
	if got := Short(); got != Version {
		t.Errorf("Short() = %q, want %q", got, Version)
	}
}

func TestGetInfoMatchesPackageState(t *testing.T) {
	info := GetInfo()
	if info.Version != Version || info.Commit != Commit || info.Date != Date {
		t.Fatalf("GetInfo() = %+v, want it to mirror package vars", info)
	}
	if info.GoVersion != runtime.Version() || info.OS != runtime.GOOS || info.Arch != runtime.GOARCH {
		t.Fatalf("GetInfo() runtime fields = %+v, want them to match runtime.*", info)
	}
}

func TestGetInfoIsJSONSerializable(t *testing.T) {
	data, err := json.Marshal(GetInfo())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var parsed map[string]string
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, field := range []string{"version", "commit", "date", "go_version", "os", "arch"} {
		if _, ok := parsed[field]; !ok {
			t.Errorf("JSON output missing field %q", field)
		}
	}
}
