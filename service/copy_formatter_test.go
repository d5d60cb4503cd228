package service

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/copyscn/domain"
)

func sampleCopyResponse() *domain.CopyResponse {
	alice := domain.Student{ID: "alice", Name: "Alice Martin", Email: "alice@example.org"}
	bob := domain.Student{ID: "bob", Name: "Bob Durand", Email: "bob@example.org"}
	carl := domain.Student{ID: "carl", Name: "Carl Petit", Email: "carl@example.org"}
	dan := domain.Student{ID: "dan", Name: "Dan Roux", Email: "dan@example.org"}
	eve := domain.Student{ID: "eve", Name: "Eve Blanc", Email: "eve@example.org"}

	return &domain.CopyResponse{
		RunID:    "run-1",
		Source:   "answers.csv",
		Question: "5",
		Language: "python",
		Clusters: []domain.CopyCluster{
			{ID: 1, Leader: alice, Members: []domain.Student{bob, carl}, Size: 3},
			{ID: 2, Leader: dan, Members: []domain.Student{eve}, Size: 2},
		},
		Involved:  []domain.Student{alice, bob, carl, dan, eve},
		EmailList: []string{"alice@example.org", "bob@example.org", "carl@example.org", "dan@example.org", "eve@example.org"},
		Statistics: domain.CopyStatistics{
			SubmissionsAnalyzed: 7,
			Clusters:            2,
			StudentsInvolved:    5,
			LargestCluster:      3,
		},
		Success: true,
	}
}

func TestCopyOutputFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	err := NewCopyOutputFormatter().FormatCopyResponse(sampleCopyResponse(), domain.OutputFormatText, &buf)
	require.NoError(t, err)

	want := "COPIES: File 'answers.csv', Question 5\n" +
		"\n" +
		"alice Alice Martin\n" +
		"    bob Bob Durand\n" +
		"    carl Carl Petit\n" +
		"\n" +
		"dan Dan Roux\n" +
		"    eve Eve Blanc\n" +
		"\n" +
		"\n" +
		"5 students involved in 'collaborating':\n" +
		"  alice Alice Martin\n" +
		"  bob Bob Durand\n" +
		"  carl Carl Petit\n" +
		"  dan Dan Roux\n" +
		"  eve Eve Blanc\n" +
		"\n" +
		"Email list:  alice@example.org,bob@example.org,carl@example.org,dan@example.org,eve@example.org\n"
	assert.Equal(t, want, buf.String())
}

func TestCopyOutputFormatter_TextNoCopies(t *testing.T) {
	resp := &domain.CopyResponse{Source: "/subs"}

	var buf bytes.Buffer
	require.NoError(t, NewCopyOutputFormatter().FormatCopyResponse(resp, "", &buf))
	assert.Equal(t, "COPIES: File '/subs'\n\n\n0 students involved in 'collaborating':\n\nEmail list:  \n", buf.String())
}

func TestCopyOutputFormatter_TextCanonical(t *testing.T) {
	resp := sampleCopyResponse()
	resp.Clusters[0].Canonical = "defxxx():return1"

	var buf bytes.Buffer
	require.NoError(t, NewCopyOutputFormatter().FormatCopyResponse(resp, domain.OutputFormatText, &buf))
	assert.Contains(t, buf.String(), "    carl Carl Petit\n    canonical: defxxx():return1\n\n")
}

func TestCopyOutputFormatter_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCopyOutputFormatter().FormatCopyResponse(sampleCopyResponse(), domain.OutputFormatCSV, &buf))

	want := "cluster_id,role,id,name,email,size\n" +
		"1,leader,alice,Alice Martin,alice@example.org,3\n" +
		"1,member,bob,Bob Durand,bob@example.org,3\n" +
		"1,member,carl,Carl Petit,carl@example.org,3\n" +
		"2,leader,dan,Dan Roux,dan@example.org,2\n" +
		"2,member,eve,Eve Blanc,eve@example.org,2\n"
	assert.Equal(t, want, buf.String())
}

func TestCopyOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCopyOutputFormatter().FormatCopyResponse(sampleCopyResponse(), domain.OutputFormatJSON, &buf))

	var decoded struct {
		RunID    string `json:"run_id"`
		Clusters []struct {
			Leader  struct{ ID string } `json:"leader"`
			Members []struct{ ID string }
			Size    int `json:"size"`
		} `json:"clusters"`
		EmailList  []string `json:"email_list"`
		Statistics struct {
			StudentsInvolved int `json:"students_involved"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Clusters, 2)
	assert.Equal(t, "alice", decoded.Clusters[0].Leader.ID)
	assert.Len(t, decoded.Clusters[0].Members, 2)
	assert.Equal(t, 3, decoded.Clusters[0].Size)
	assert.Equal(t, 5, decoded.Statistics.StudentsInvolved)
	assert.Len(t, decoded.EmailList, 5)
	assert.NotContains(t, buf.String(), "canonical", "empty canonical forms are omitted")
}

func TestCopyOutputFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCopyOutputFormatter().FormatCopyResponse(sampleCopyResponse(), domain.OutputFormatYAML, &buf))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "answers.csv", decoded["source"])
	assert.Equal(t, "python", decoded["language"])
}

func TestCopyOutputFormatter_Errors(t *testing.T) {
	f := NewCopyOutputFormatter()
	var buf bytes.Buffer

	err := f.FormatCopyResponse(nil, domain.OutputFormatText, &buf)
	assert.True(t, domain.HasCode(err, domain.ErrCodeOutputError))

	err = f.FormatCopyResponse(sampleCopyResponse(), domain.OutputFormat("html"), &buf)
	assert.True(t, domain.HasCode(err, domain.ErrCodeUnsupportedFormat))
}

func TestCopyOutputFormatter_FormatLanguages(t *testing.T) {
	langs := NewCopyService(nil, nil, zerolog.Nop()).Languages()
	f := NewCopyOutputFormatter()

	var text bytes.Buffer
	require.NoError(t, f.FormatLanguages(langs, domain.OutputFormatText, &text))
	assert.Contains(t, text.String(), "Supported languages")
	assert.Contains(t, text.String(), "MATLAB\n------")
	assert.Contains(t, text.String(), ".java")

	var js bytes.Buffer
	require.NoError(t, f.FormatLanguages(langs, domain.OutputFormatJSON, &js))
	var decoded []domain.LanguageInfo
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Len(t, decoded, 4)

	assert.Error(t, f.FormatLanguages(langs, domain.OutputFormatCSV, &js))
}
