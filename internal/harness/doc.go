// Package harness runs golden-file comparisons for tests and for the CLI.
//
// The comparison engine (package compare) is pure: it never touches the
// filesystem. The harness owns everything around it: locating golden files,
// reading them, regenerating them in update mode, and running suites of
// cases described in YAML.
//
// # Go Tests
//
//	func TestRender(t *testing.T) {
//	    h, err := harness.New(harness.WithDecoder(decode.JSON{}), harness.WithConfig(cfg))
//	    require.NoError(t, err)
//	    h.Assert(t, "render", render())
//	}
//
// Golden files live in testdata/golden/{name}.golden by default.
//
// # Update Mode
//
// Update mode writes the actual output to the golden file verbatim and skips
// the comparison. It is enabled by any of:
//   - WithUpdate(true)
//   - GOLDEN_UPDATE set to a true value (1, t, true)
//   - the -update test flag
//
// # Suite Format
//
//	name: cli-output
//	description: "Output of the list command"
//	config: golden.yaml
//	decoder: json
//	cases:
//	  - name: list
//	    actual: out/list.json
//	    golden: golden/list.json
//
// Relative paths are resolved against the suite file's directory.
package harness
