package object

import "github.com/opengm-go/gmvm/errz"

func Require(funcName string, count int, args []Object) error {
	nArgs := len(args)
	if nArgs != count {
		if count == 1 {
			return errz.ArgsErrorf("%s() takes exactly 1 argument (%d given)",
				funcName, nArgs)
		}
		return errz.ArgsErrorf("%s() takes exactly %d arguments (%d given)",
			funcName, count, nArgs)
	}
	return nil
}

func RequireRange(funcName string, min, max int, args []Object) error {
	nArgs := len(args)
	if nArgs < min {
		return errz.ArgsErrorf("%s() takes at least %d %s (%d given)",
			funcName, min, pluralize("argument", min != 1), nArgs)
	} else if max >= 0 && nArgs > max {
		return errz.ArgsErrorf("%s() takes at most %d %s (%d given)",
			funcName, max, pluralize("argument", max != 1), nArgs)
	}
	return nil
}

func pluralize(s string, do bool) string {
	if do {
		return s + "s"
	}
	return s
}
