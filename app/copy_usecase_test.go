package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/copyscn/domain"
)

type mockCopyService struct {
	mock.Mock
}

func (m *mockCopyService) DetectCopies(ctx context.Context, req *domain.CopyRequest, subs []domain.RawSubmission) (*domain.CopyResponse, error) {
	args := m.Called(ctx, req, subs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CopyResponse), args.Error(1)
}

func (m *mockCopyService) NormalizeSource(language, source string, opts domain.NormalizeOptions) (string, error) {
	args := m.Called(language, source, opts)
	return args.String(0), args.Error(1)
}

func (m *mockCopyService) Language(name string) (domain.LanguageInfo, error) {
	args := m.Called(name)
	return args.Get(0).(domain.LanguageInfo), args.Error(1)
}

func (m *mockCopyService) Languages() []domain.LanguageInfo {
	return m.Called().Get(0).([]domain.LanguageInfo)
}

type mockRosterReader struct {
	mock.Mock
}

func (m *mockRosterReader) ReadRoster(path, question, interfaceLanguage string) ([]domain.RawSubmission, error) {
	args := m.Called(path, question, interfaceLanguage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawSubmission), args.Error(1)
}

type mockDirectoryReader struct {
	mock.Mock
}

func (m *mockDirectoryReader) ReadDirectory(dir string, patterns []string) ([]domain.RawSubmission, error) {
	args := m.Called(dir, patterns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawSubmission), args.Error(1)
}

type mockSubmissionWriter struct {
	mock.Mock
}

func (m *mockSubmissionWriter) WriteSubmissions(outputDir, question, extension string, subs []domain.RawSubmission) (string, error) {
	args := m.Called(outputDir, question, extension, subs)
	return args.String(0), args.Error(1)
}

type mockCopyFormatter struct {
	mock.Mock
}

func (m *mockCopyFormatter) FormatCopyResponse(response *domain.CopyResponse, format domain.OutputFormat, writer io.Writer) error {
	args := m.Called(response, format, writer)
	if args.Error(0) == nil {
		_, _ = io.WriteString(writer, "formatted")
	}
	return args.Error(0)
}

type mockReportWriter struct {
	mock.Mock
}

func (m *mockReportWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	args := m.Called(writer, outputPath, format)
	if err := args.Error(0); err != nil {
		return err
	}
	return writeFunc(io.Discard)
}

var pythonInfo = domain.LanguageInfo{Name: "python", Extension: ".py"}

type copyMocks struct {
	service   *mockCopyService
	roster    *mockRosterReader
	directory *mockDirectoryReader
	writer    *mockSubmissionWriter
	formatter *mockCopyFormatter
}

func setupCopyUseCase(t *testing.T) (*CopyUseCase, copyMocks) {
	t.Helper()
	m := copyMocks{
		service:   &mockCopyService{},
		roster:    &mockRosterReader{},
		directory: &mockDirectoryReader{},
		writer:    &mockSubmissionWriter{},
		formatter: &mockCopyFormatter{},
	}
	uc, err := NewCopyUseCaseBuilder().
		WithService(m.service).
		WithRosterReader(m.roster).
		WithDirectoryReader(m.directory).
		WithSubmissionWriter(m.writer).
		WithFormatter(m.formatter).
		Build()
	require.NoError(t, err)
	return uc, m
}

func rosterRequest(out io.Writer) domain.CopyRequest {
	req := *domain.DefaultCopyRequest()
	req.AnswersPath = "answers.csv"
	req.Question = "5"
	req.SubmissionsOut = "out"
	req.OutputWriter = out
	return req
}

func TestCopyUseCase_Execute_Roster(t *testing.T) {
	uc, m := setupCopyUseCase(t)
	var buf bytes.Buffer
	req := rosterRequest(&buf)

	subs := []domain.RawSubmission{{ID: "a", Source: "x"}, {ID: "b", Source: "x"}}
	resp := &domain.CopyResponse{Success: true}

	m.service.On("Language", "python").Return(pythonInfo, nil)
	m.roster.On("ReadRoster", "answers.csv", "5", domain.InterfaceEnglish).Return(subs, nil)
	m.writer.On("WriteSubmissions", "out", "5", ".py", subs).Return("out/SubmissionsQ5", nil)
	m.service.On("DetectCopies", mock.Anything, mock.AnythingOfType("*domain.CopyRequest"), subs).Return(resp, nil)
	m.formatter.On("FormatCopyResponse", resp, domain.OutputFormatText, &buf).Return(nil)

	require.NoError(t, uc.Execute(context.Background(), req))
	assert.Equal(t, "formatted", buf.String())

	m.service.AssertExpectations(t)
	m.roster.AssertExpectations(t)
	m.writer.AssertExpectations(t)
	m.formatter.AssertExpectations(t)
	m.directory.AssertNotCalled(t, "ReadDirectory", mock.Anything, mock.Anything)
}

func TestCopyUseCase_Execute_DirectoryUsesDefaultPatterns(t *testing.T) {
	uc, m := setupCopyUseCase(t)
	var buf bytes.Buffer
	req := *domain.DefaultCopyRequest()
	req.SubmissionsDir = "subs"
	req.Language = "java"
	req.OutputWriter = &buf

	subs := []domain.RawSubmission{{ID: "a", Source: "class A {}"}}
	resp := &domain.CopyResponse{Success: true}

	m.service.On("Language", "java").Return(domain.LanguageInfo{Name: "java", Extension: ".java"}, nil)
	m.directory.On("ReadDirectory", "subs", []string{"**/*.java"}).Return(subs, nil)
	m.service.On("DetectCopies", mock.Anything, mock.Anything, subs).Return(resp, nil)
	m.formatter.On("FormatCopyResponse", resp, domain.OutputFormatText, &buf).Return(nil)

	require.NoError(t, uc.Execute(context.Background(), req))
	m.directory.AssertExpectations(t)
	m.writer.AssertNotCalled(t, "WriteSubmissions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCopyUseCase_Execute_ReportFile(t *testing.T) {
	uc, m := setupCopyUseCase(t)
	reports := &mockReportWriter{}
	uc.output = reports

	req := rosterRequest(nil)
	req.WriteSubmissions = false
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputPath = "reports/copies.json"

	resp := &domain.CopyResponse{Success: true}
	m.service.On("Language", "python").Return(pythonInfo, nil)
	m.roster.On("ReadRoster", mock.Anything, mock.Anything, mock.Anything).Return([]domain.RawSubmission{}, nil)
	m.service.On("DetectCopies", mock.Anything, mock.Anything, mock.Anything).Return(resp, nil)
	m.formatter.On("FormatCopyResponse", resp, domain.OutputFormatJSON, mock.Anything).Return(nil)
	reports.On("Write", nil, "reports/copies.json", domain.OutputFormatJSON).Return(nil)

	require.NoError(t, uc.Execute(context.Background(), req))
	reports.AssertExpectations(t)
}

func TestCopyUseCase_Execute_Errors(t *testing.T) {
	t.Run("no output writer", func(t *testing.T) {
		uc, _ := setupCopyUseCase(t)
		err := uc.Execute(context.Background(), rosterRequest(nil))
		assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
	})

	t.Run("invalid request", func(t *testing.T) {
		uc, m := setupCopyUseCase(t)
		req := rosterRequest(io.Discard)
		req.Question = ""
		err := uc.Execute(context.Background(), req)
		assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError))
		m.service.AssertNotCalled(t, "Language", mock.Anything)
	})

	t.Run("unknown language fails before reading", func(t *testing.T) {
		uc, m := setupCopyUseCase(t)
		req := rosterRequest(io.Discard)
		req.Language = "cobol"
		m.service.On("Language", "cobol").
			Return(domain.LanguageInfo{}, domain.NewUnsupportedLanguageError("cobol", nil))

		err := uc.Execute(context.Background(), req)
		assert.True(t, domain.HasCode(err, domain.ErrCodeUnsupportedLanguage))
		m.roster.AssertNotCalled(t, "ReadRoster", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reader error", func(t *testing.T) {
		uc, m := setupCopyUseCase(t)
		m.service.On("Language", "python").Return(pythonInfo, nil)
		m.roster.On("ReadRoster", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.NewFileNotFoundError("answers.csv", nil))

		err := uc.Execute(context.Background(), rosterRequest(io.Discard))
		assert.True(t, domain.HasCode(err, domain.ErrCodeFileNotFound))
	})

	t.Run("detection error", func(t *testing.T) {
		uc, m := setupCopyUseCase(t)
		boom := errors.New("boom")
		req := rosterRequest(io.Discard)
		req.WriteSubmissions = false
		m.service.On("Language", "python").Return(pythonInfo, nil)
		m.roster.On("ReadRoster", mock.Anything, mock.Anything, mock.Anything).Return([]domain.RawSubmission{}, nil)
		m.service.On("DetectCopies", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "copy detection failed")
	})
}

func TestCopyUseCaseBuilder_Build(t *testing.T) {
	_, err := NewCopyUseCaseBuilder().Build()
	assert.EqualError(t, err, "copy service is required")

	_, err = NewCopyUseCaseBuilder().WithService(&mockCopyService{}).Build()
	assert.EqualError(t, err, "a roster reader or a directory reader is required")

	_, err = NewCopyUseCaseBuilder().
		WithService(&mockCopyService{}).
		WithDirectoryReader(&mockDirectoryReader{}).
		Build()
	assert.EqualError(t, err, "output formatter is required")
}
