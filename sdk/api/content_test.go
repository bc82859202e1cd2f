package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewContentClient(t *testing.T) {
	client := NewContentClient(
		testAPIAddress,
		testAPIToken,
		testClientAllowInsecure,
	)
	require.IsType(t, &contentClient{}, client)
	requireBaseClient(t, client.(*contentClient).BaseClient)
}

func TestContentClientGenerateCaption(t *testing.T) {
	testCaption := Caption{
		Text:     "Fresh beans, fresh start. ☕",
		Hashtags: []string{"#coffee", "#morning"},
		Model:    "gemini-2.0-flash",
	}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v2/captions", r.URL.Path)
				require.Contains(t, r.Header.Get("Authorization"), "Bearer")
				req := CaptionRequest{}
				err := json.NewDecoder(r.Body).Decode(&req)
				require.NoError(t, err)
				require.Equal(t, "product launch", req.Topic)
				bodyBytes, err := json.Marshal(testCaption)
				require.NoError(t, err)
				w.WriteHeader(http.StatusCreated)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewContentClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	caption, err := client.GenerateCaption(
		context.Background(),
		CaptionRequest{
			PersonaID:       "12345",
			Topic:           "product launch",
			IncludeHashtags: true,
		},
	)
	require.NoError(t, err)
	require.Equal(t, testCaption.Text, caption.Text)
	require.Equal(t, testCaption.Hashtags, caption.Hashtags)
}

func TestContentClientGenerateHashtags(t *testing.T) {
	testHashtags := HashtagSet{
		Hashtags: []string{"#fitness", "#gym", "#health"},
	}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v2/hashtags", r.URL.Path)
				bodyBytes, err := json.Marshal(testHashtags)
				require.NoError(t, err)
				w.WriteHeader(http.StatusCreated)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewContentClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	hashtags, err := client.GenerateHashtags(
		context.Background(),
		HashtagsRequest{Topic: "leg day", Count: 3},
	)
	require.NoError(t, err)
	require.Len(t, hashtags.Hashtags, 3)
}

func TestContentClientGenerateIdeas(t *testing.T) {
	testIdeas := IdeaList{
		Items: []ContentIdea{
			{Title: "Behind the scenes", Format: "reel"},
			{Title: "Customer spotlight", Format: "carousel"},
		},
	}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v2/ideas", r.URL.Path)
				bodyBytes, err := json.Marshal(testIdeas)
				require.NoError(t, err)
				w.WriteHeader(http.StatusCreated)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewContentClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	ideas, err := client.GenerateIdeas(
		context.Background(),
		IdeasRequest{ContentType: "reels", Count: 2},
	)
	require.NoError(t, err)
	require.Len(t, ideas.Items, 2)
}

func TestContentClientAnalyzeContent(t *testing.T) {
	testAnalysis := ContentAnalysis{
		CharacterCount: 54,
		WordCount:      9,
		HashtagCount:   2,
		AlignmentScore: 0.85,
		Feedback:       "On brand.",
		Suggestions:    []string{"Add a clearer call to action"},
	}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v2/analyses", r.URL.Path)
				req := AnalysisRequest{}
				err := json.NewDecoder(r.Body).Decode(&req)
				require.NoError(t, err)
				require.Equal(t, "Fresh beans, fresh start. ☕", req.Content)
				bodyBytes, err := json.Marshal(testAnalysis)
				require.NoError(t, err)
				w.WriteHeader(http.StatusCreated)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewContentClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	analysis, err := client.AnalyzeContent(
		context.Background(),
		AnalysisRequest{
			Content:       "Fresh beans, fresh start. ☕",
			TargetMetrics: []string{"engagement"},
		},
	)
	require.NoError(t, err)
	require.Equal(t, testAnalysis.AlignmentScore, analysis.AlignmentScore)
	require.Equal(t, testAnalysis.Suggestions, analysis.Suggestions)
}

func TestContentClientGetUsage(t *testing.T) {
	testUsage := Usage{
		Captions: 42,
		Hashtags: 7,
		Ideas:    3,
	}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v2/usage", r.URL.Path)
				bodyBytes, err := json.Marshal(testUsage)
				require.NoError(t, err)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewContentClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	usage, err := client.GetUsage(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), usage.Captions)
}
