package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func TestCompleteSource(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		toComplete string
		want       []string
		directive  cobra.ShellCompDirective
	}{
		{"files", nil, "", []string{"json", "yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt},
		{"sample prefix", nil, "sam", []string{"sample"}, cobra.ShellCompDirectiveNoFileComp},
		{"path", nil, "net", []string{"json", "yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt},
		{"second arg", []string{"net.json"}, "", nil, cobra.ShellCompDirectiveNoFileComp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dir := completeSource(nil, tt.args, tt.toComplete)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("completions mismatch (-want +got):\n%s", diff)
			}
			if dir != tt.directive {
				t.Errorf("directive = %v, want %v", dir, tt.directive)
			}
		})
	}
}

func TestCompleteFormats(t *testing.T) {
	got, _ := completeFormats(nil, nil, "svg,p")
	want := []string{"svg,dot", "svg,graphviz", "svg,json", "svg,png", "svg,svg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("completions mismatch (-want +got):\n%s", diff)
	}
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			root.PersistentPreRunE = nil
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), "topoviz") {
				t.Errorf("%s script does not mention topoviz", shell)
			}
		})
	}
}
