package testutils

import (
	"fmt"
	"regexp"
)

var schemaDirective = regexp.MustCompile(`(?m)^# schema:\s*([^\s]+)$`)

// FindSchemaFileName reads the "# schema: file" line of a fixture.
func FindSchemaFileName(t TestingT, source string) string {
	t.Helper()

	ss := schemaDirective.FindStringSubmatch(source)
	if len(ss) != 2 {
		t.Fatal("schema file directive mismatch")
	}

	return ss[1]
}

// FindOptionString reads a "# option:name: value" line of a fixture.
func FindOptionString(t TestingT, optionName, source string) string {
	t.Helper()

	value, ok := findOption(t, optionName, source)
	if !ok {
		t.Logf("option %s value is not found", optionName)
	}
	return value
}

func FindOptionBool(t TestingT, optionName, source string) bool {
	t.Helper()

	return FindOptionString(t, optionName, source) == "true"
}

func findOption(t TestingT, optionName, source string) (string, bool) {
	t.Helper()

	re, err := regexp.Compile(fmt.Sprintf(`(?m)^# option:%s:\s*([^\s]+)$`, regexp.QuoteMeta(optionName)))
	if err != nil {
		t.Fatal(err)
	}

	ss := re.FindStringSubmatch(source)
	if len(ss) != 2 {
		return "", false
	}
	return ss[1], true
}
