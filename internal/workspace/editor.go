package workspace

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EditorLaunch is a prepared editor process.
type EditorLaunch struct {
	Cmd  *exec.Cmd
	Wait bool
}

type editorCommand struct {
	command string
	args    []string
	wait    bool
	silence bool
}

func (c *editorCommand) launch() *EditorLaunch {
	cmd := exec.Command(c.command, c.args...)
	if c.silence {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}
	return &EditorLaunch{Cmd: cmd, Wait: c.wait}
}

// EditorLaunchForPath builds the command for the configured editor.
func EditorLaunchForPath(path string) (*EditorLaunch, error) {
	editor := strings.TrimSpace(viper.GetString("editor"))
	cmd, err := buildEditorCommand(path, editor)
	if err != nil {
		return nil, err
	}
	return cmd.launch(), nil
}

func buildEditorCommand(path string, editor string) (*editorCommand, error) {
	switch editor {
	case "nvim":
		return buildNvimCommand(path), nil
	case "vim":
		return &editorCommand{command: "vim", args: []string{path}, wait: true}, nil
	case "nano":
		return &editorCommand{command: "nano", args: []string{path}, wait: true}, nil
	case "vscode", "code":
		return buildVSCodeCommand(path)
	case "custom":
		return buildEnvCommand(path)
	case "":
		return nil, fmt.Errorf("editor not configured")
	default:
		return nil, fmt.Errorf("unsupported editor: %s", editor)
	}
}

func buildNvimCommand(path string) *editorCommand {
	args := []string{"nvim"}
	if extra := strings.TrimSpace(viper.GetString("nvim_args")); extra != "" {
		args = append(args, strings.Fields(extra)...)
	}
	args = append(args, path)
	return &editorCommand{command: args[0], args: args[1:], wait: true}
}

func buildVSCodeCommand(path string) (*editorCommand, error) {
	switch runtime.GOOS {
	case "darwin":
		return &editorCommand{command: "open", args: []string{"-n", "-b", "com.microsoft.VSCode", "--args", path}, silence: true}, nil
	case "linux":
		return &editorCommand{command: "code", args: []string{path}, silence: true}, nil
	case "windows":
		return &editorCommand{command: "cmd", args: []string{"/c", "code", path}, silence: true}, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// buildEnvCommand runs $VISUAL or $EDITOR.
func buildEnvCommand(path string) (*editorCommand, error) {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		fields := strings.Fields(os.Getenv(key))
		if len(fields) == 0 {
			continue
		}
		return &editorCommand{command: fields[0], args: append(fields[1:], path), wait: true}, nil
	}
	return nil, fmt.Errorf("custom editor requires $VISUAL or $EDITOR to be set")
}

// Launch opens path in the configured editor, waiting for terminal editors
// to exit.
func Launch(path string) error {
	launch, err := EditorLaunchForPath(path)
	if err != nil {
		return err
	}

	if launch.Wait {
		if launch.Cmd.Stdin == nil {
			launch.Cmd.Stdin = os.Stdin
		}
		if launch.Cmd.Stdout == nil {
			launch.Cmd.Stdout = os.Stdout
		}
		if launch.Cmd.Stderr == nil {
			launch.Cmd.Stderr = os.Stderr
		}
	}

	if err := launch.Cmd.Start(); err != nil {
		return fmt.Errorf("error starting editor: %w", err)
	}
	if !launch.Wait {
		return nil
	}
	if err := launch.Cmd.Wait(); err != nil {
		return fmt.Errorf("error waiting for editor to close: %w", err)
	}
	return nil
}
