package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/internal/submission"
)

// RosterHeaders names the quiz-server export columns for one interface language
type RosterHeaders struct {
	Response  string
	Email     string
	FirstName string
	Surname   string
}

// HeadersFor returns the column names used by an interface language
func HeadersFor(interfaceLanguage string) (RosterHeaders, error) {
	switch strings.ToLower(strings.TrimSpace(interfaceLanguage)) {
	case "", domain.InterfaceEnglish:
		return RosterHeaders{
			Response:  "Response",
			Email:     "Email address",
			FirstName: "First name",
			Surname:   "Surname",
		}, nil
	case domain.InterfaceFrench:
		return RosterHeaders{
			Response:  "Réponse",
			Email:     "Adresse de courriel",
			FirstName: "Prénom",
			Surname:   "Nom",
		}, nil
	default:
		return RosterHeaders{}, domain.NewConfigError(
			fmt.Sprintf("unsupported interface language %q (expected %s or %s)",
				interfaceLanguage, domain.InterfaceEnglish, domain.InterfaceFrench), nil)
	}
}

// ResponseColumn is the header of the answer column for question
func (h RosterHeaders) ResponseColumn(question string) string {
	return h.Response + " " + strings.TrimSpace(question)
}

// RosterReaderImpl reads quiz-server CSV exports
type RosterReaderImpl struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewRosterReader creates a roster reader on fs
func NewRosterReader(fs afero.Fs, logger zerolog.Logger) *RosterReaderImpl {
	return &RosterReaderImpl{fs: fs, logger: logger}
}

// ReadRoster reads every row of the export at path. The file is UTF-8 with
// an optional byte order mark.
func (r *RosterReaderImpl) ReadRoster(path, question, interfaceLanguage string) ([]domain.RawSubmission, error) {
	headers, err := HeadersFor(interfaceLanguage)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, domain.NewConfigError("question is required", nil)
	}

	f, err := r.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot open answers file %s", path), err)
	}
	defer f.Close()

	subs, err := r.decode(f, headers, question)
	if err != nil {
		var de domain.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.NewParseError(path, err)
	}

	r.logger.Debug().
		Str("path", path).
		Str("question", question).
		Int("rows", len(subs)).
		Msg("roster read")
	return subs, nil
}

func (r *RosterReaderImpl) decode(in io.Reader, headers RosterHeaders, question string) ([]domain.RawSubmission, error) {
	bomAware := transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	rdr := csv.NewReader(bomAware)
	rdr.FieldsPerRecord = -1
	rdr.LazyQuotes = true

	header, err := rdr.Read()
	if err == io.EOF {
		return nil, domain.NewInvalidInputError("answers file is empty", nil)
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := canonicalHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	responseCol := headers.ResponseColumn(question)
	cols := make(map[string]int, 4)
	for _, name := range []string{responseCol, headers.Email, headers.FirstName, headers.Surname} {
		i, ok := index[canonicalHeader(name)]
		if !ok {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("missing column %q in answers file", name), nil)
		}
		cols[name] = i
	}

	var subs []domain.RawSubmission
	line := 1
	for {
		record, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		field := func(name string) string {
			i := cols[name]
			if i < len(record) {
				return record[i]
			}
			return ""
		}

		email := strings.TrimSpace(field(headers.Email))
		id, err := submission.StudentID(email)
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("row %d: invalid email %q", line, email), err)
		}

		subs = append(subs, domain.RawSubmission{
			ID:     id,
			Name:   field(headers.FirstName) + " " + field(headers.Surname),
			Email:  email,
			Source: field(responseCol),
		})
	}
	return subs, nil
}

func canonicalHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(h))
}
