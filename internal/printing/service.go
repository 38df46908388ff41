// Package printing produces password sheets for sets of accounts.
package printing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/authz"
	"github.com/lyceumd/lyceumd/internal/command"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// Service filters a print request down to the accounts the caller may see
// and drives the print tool.
type Service struct {
	filter        *authz.PrintFilter
	runner        command.Runner
	dataDir       string
	defaultSchool string
}

// NewService constructs a Service. dataDir is where the print tool drops
// its output files; defaultSchool is used when a global caller does not
// name one.
func NewService(filter *authz.PrintFilter, runner command.Runner, dataDir, defaultSchool string) *Service {
	return &Service{filter: filter, runner: runner, dataDir: dataDir, defaultSchool: defaultSchool}
}

// Sheet describes a generated password sheet.
type Sheet struct {
	Path      string
	Filename  string
	MediaType string
	// Printed lists the accounts that survived the permission filter.
	Printed []string
}

var mediaTypes = map[string]string{
	"pdf": "application/pdf",
	"csv": "text/csv",
}

// Print redacts forbidden entries from the user set, runs the print tool
// for the rest and returns the location of the generated sheet. Redaction
// never fails the request; an empty remainder does.
func (s *Service) Print(ctx context.Context, who authn.Identity, users []string, school, format string) (*Sheet, error) {
	mediaType, ok := mediaTypes[format]
	if !ok {
		return nil, fmt.Errorf("%s is a wrong format: %w", format, httpx.ErrValidation)
	}
	for _, user := range users {
		if !validAccountName(user) {
			return nil, fmt.Errorf("%s is not a valid account name: %w", user, httpx.ErrValidation)
		}
	}

	printable := s.filter.Filter(ctx, who, users)
	if len(printable) == 0 {
		return nil, fmt.Errorf("no printable users in request: %w", httpx.ErrValidation)
	}

	args := []string{"--caller", who.User}
	switch {
	case who.School == "global" && school != "":
		args = append(args, "--school", school)
	case who.School == "global":
		args = append(args, "--school", s.defaultSchool)
	case who.School != "":
		args = append(args, "--school", who.School)
	}
	args = append(args, "--user", strings.Join(printable, ","))

	if _, err := s.runner.Output(ctx, "sophomorix-print", args...); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s-%s.%s", sheetPrefix(printable), who.User, format)
	return &Sheet{
		Path:      filepath.Join(s.dataDir, filename),
		Filename:  filename,
		MediaType: mediaType,
		Printed:   printable,
	}, nil
}

func sheetPrefix(printable []string) string {
	if len(printable) == 1 {
		return printable[0]
	}
	return "multiuser"
}

// validAccountName rejects anything that could steer the sheet path out of
// the data directory. Account names never contain separators; exam accounts
// pass no directory lookup, so the name is checked here.
func validAccountName(user string) bool {
	if user == "" || user == "." || user == ".." {
		return false
	}
	return !strings.ContainsAny(user, `/\`)
}
