package hemtt

import (
	"reflect"
	"testing"
)

func TestCheckArgs(t *testing.T) {
	cases := []struct {
		name string
		g    GlobalOptions
		o    CheckOptions
		want []string
	}{
		{
			name: "bare",
			want: []string{"check"},
		},
		{
			name: "globals",
			g:    GlobalOptions{Verbose: true, Threads: 8},
			want: []string{"check", "-v", "-t", "8"},
		},
		{
			name: "pedantic with lints",
			o:    CheckOptions{Pedantic: true, Lints: []string{"L-C01", "L-C02"}},
			want: []string{"check", "-p", "-L", "L-C01", "-L", "L-C02"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CheckArgs(c.g, c.o)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("args = %q, want %q", got, c.want)
			}
		})
	}
}

func TestBuildArgs(t *testing.T) {
	cases := []struct {
		name string
		sub  string
		g    GlobalOptions
		o    BuildOptions
		want []string
	}{
		{
			name: "dev bare",
			sub:  "dev",
			want: []string{"dev"},
		},
		{
			name: "build everything",
			sub:  "build",
			g:    GlobalOptions{Verbose: true},
			o: BuildOptions{
				Binarize:     true,
				NoRap:        true,
				AllOptionals: true,
				Optionals:    []string{"compat"},
				Just:         []string{"main_addon"},
			},
			want: []string{"build", "-v", "-b", "--no-rap", "-O", "-o", "compat", "--just", "main_addon"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BuildArgs(c.sub, c.g, c.o)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("args = %q, want %q", got, c.want)
			}
		})
	}
}

func TestReleaseArgs(t *testing.T) {
	got := ReleaseArgs(GlobalOptions{}, ReleaseOptions{NoBinarize: true, NoSign: true})
	want := []string{"release", "--no-bin", "--no-sign"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestLaunchArgs(t *testing.T) {
	cases := []struct {
		name string
		g    GlobalOptions
		o    LaunchOptions
		want []string
	}{
		{
			name: "default profile omitted",
			o:    LaunchOptions{Profile: "default"},
			want: []string{"launch"},
		},
		{
			name: "named profile first",
			o:    LaunchOptions{Profile: "profiling", Quick: true},
			want: []string{"launch", "profiling", "-Q"},
		},
		{
			name: "single instance omitted",
			o:    LaunchOptions{Instances: 1},
			want: []string{"launch"},
		},
		{
			name: "full set with passthrough last",
			g:    GlobalOptions{Verbose: true},
			o: LaunchOptions{
				NoFilePatching: true,
				Binarize:       true,
				AllOptionals:   true,
				NoRap:          true,
				Executable:     "arma3profiling_x64",
				Instances:      2,
				Optionals:      []string{"compat", "extra"},
				Passthrough:    []string{"-world=empty", "-window"},
			},
			want: []string{
				"launch", "-v", "-F", "-b", "-O", "--no-rap",
				"-e", "arma3profiling_x64", "-i", "2",
				"-o", "compat", "-o", "extra",
				"--", "-world=empty", "-window",
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := LaunchArgs(c.g, c.o)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("args = %q, want %q", got, c.want)
			}
		})
	}
}

func TestWithGlobals(t *testing.T) {
	got := WithGlobals(GlobalOptions{Threads: 4}, "ln", "sort")
	want := []string{"ln", "sort", "-t", "4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{" a , ,b, ", []string{"a", "b"}},
	}
	for _, c := range cases {
		if got := SplitList(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitList(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
