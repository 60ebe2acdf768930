package cli

import "strings"

// PrepareArgs turns the raw argument list into what the flag parser
// expects.
//
// When dog is started through a link whose name does not contain "dog"
// (e.g. a "make" symlink pointing at dog), that name is the command to run
// and is put in front of the arguments.
//
// A "--" is then inserted before the first token that does not start with
// "-", so that options of the wrapped command are not taken for dog's
// own. An empty token counts as a command token. Nothing is inserted when
// the arguments already contain "--" or when every token looks like a
// flag; in the latter case all tokens are dog options.
func PrepareArgs(ownName string, argv []string) []string {
	args := make([]string, 0, len(argv)+2)
	if !strings.Contains(ownName, "dog") {
		args = append(args, ownName)
	}
	args = append(args, argv...)

	for _, a := range args {
		if a == "--" {
			return args
		}
	}
	for i, a := range args {
		if !strings.HasPrefix(a, "-") {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
	}
	return args
}
