package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
type FlagCompletion struct {
	Name      string   // flag name without the leading dash
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value; empty for booleans
	IsFile    bool     // the flag takes a file path
	IsAlgo    bool     // values come from the algorithm list
}

// flagRegistry lists the flags offered by the completion scripts.
var flagRegistry = []FlagCompletion{
	{Name: "n", Help: "Fibonacci index to calculate", ValueName: "index"},
	{Name: "algo", Help: "Algorithm to use", IsAlgo: true, ValueName: "algorithm"},
	{Name: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "30m"}, ValueName: "duration"},
	{Name: "v", Help: "Display the full value"},
	{Name: "d", Help: "Show result details"},
	{Name: "c", Help: "Display the calculated value"},
	{Name: "q", Help: "Quiet mode for scripts"},
	{Name: "o", Help: "Output file path", IsFile: true, ValueName: "file"},
	{Name: "hex", Help: "Hexadecimal output"},
	{Name: "limbs", Help: "Limb array output"},
	{Name: "memory-limit", Help: "Memory budget", Values: []string{"256M", "1G", "4G", "16G"}, ValueName: "size"},
	{Name: "ntt-min-bytes", Help: "Operand size for the NTT multiplier", ValueName: "bytes"},
	{Name: "gc-mode", Help: "Garbage collector control", Values: []string{"auto", "aggressive", "disabled"}, ValueName: "mode"},
	{Name: "log-level", Help: "Diagnostic log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Name: "server", Help: "Start the HTTP server"},
	{Name: "port", Help: "Server port", ValueName: "port"},
	{Name: "max-index", Help: "Largest index served", ValueName: "index"},
	{Name: "request-timeout", Help: "Per-request computation limit", Values: []string{"1s", "10s", "1m"}, ValueName: "duration"},
	{Name: "tui", Help: "Start the interactive dashboard"},
	{Name: "interactive", Help: "Start the interactive prompt"},
	{Name: "no-color", Help: "Disable colors"},
	{Name: "calibrate", Help: "Calibrate the NTT cutover"},
	{Name: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Name: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file"},
	{Name: "completion", Help: "Generate a completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
	{Name: "version", Help: "Print version information"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh"
// or "fish").
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(algorithms)
	case "zsh":
		script = zshCompletion(algorithms)
	case "fish":
		script = fishCompletion(algorithms)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func algoValues(algorithms []string) string {
	return strings.Join(append(append([]string(nil), algorithms...), "all"), " ")
}

func bashCompletion(algorithms []string) string {
	var opts, cases []string
	for _, f := range flagRegistry {
		opts = append(opts, "-"+f.Name)
		switch {
		case f.IsAlgo:
			cases = append(cases, fmt.Sprintf("        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;", f.Name, algoValues(algorithms)))
		case f.IsFile:
			cases = append(cases, fmt.Sprintf("        -%s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;", f.Name))
		case len(f.Values) > 0:
			cases = append(cases, fmt.Sprintf("        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;", f.Name, strings.Join(f.Values, " ")))
		}
	}
	return fmt.Sprintf(`# Bash completion script for fibdrv
# Source this file or add it to /etc/bash_completion.d/

_fibdrv() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "${prev}" in
%s
    esac

    COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
    return 0
}

complete -F _fibdrv fibdrv
`, strings.Join(cases, "\n"), strings.Join(opts, " "))
}

func zshCompletion(algorithms []string) string {
	var args []string
	for _, f := range flagRegistry {
		suffix := ""
		switch {
		case f.IsFile:
			suffix = fmt.Sprintf(":%s:_files", f.ValueName)
		case f.IsAlgo:
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, algoValues(algorithms))
		case len(f.Values) > 0:
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
		case f.ValueName != "":
			suffix = fmt.Sprintf(":%s:", f.ValueName)
		}
		args = append(args, fmt.Sprintf("        '-%s[%s]%s'", f.Name, f.Help, suffix))
	}
	return fmt.Sprintf(`#compdef fibdrv

# Zsh completion script for fibdrv

_fibdrv() {
    _arguments \
%s
}

_fibdrv "$@"
`, strings.Join(args, " \\\n"))
}

func fishCompletion(algorithms []string) string {
	lines := []string{
		"# Fish completion script for fibdrv",
		"complete -c fibdrv -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c fibdrv", "-o " + f.Name, fmt.Sprintf("-d '%s'", f.Help)}
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case f.IsAlgo:
			parts = append(parts, fmt.Sprintf("-xa '%s'", algoValues(algorithms)))
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
