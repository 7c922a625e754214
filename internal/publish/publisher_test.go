// In file: internal/publish/publisher_test.go
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitThread(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, splitThread("one\n---\ntwo"))
	assert.Equal(t, []string{"solo"}, splitThread("solo"))
	assert.Equal(t, []string{"a"}, splitThread("---\na\n---\n  \n"))
	assert.Nil(t, splitThread("   "))
}

func TestParseKeyedContent(t *testing.T) {
	parts := parseKeyedContent("subreddit: artificial | title: Big News | body: It happened: today")
	assert.Equal(t, "artificial", parts["subreddit"])
	assert.Equal(t, "Big News", parts["title"])
	assert.Equal(t, "It happened: today", parts["body"])
}

func TestRegistry_SkipsNilAndLooksUpCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(nil)
	r.Register(NewTwitterPublisher("tok"))
	assert.Len(t, r.Platforms(), 1)

	p, ok := r.Get("Twitter")
	require.True(t, ok)
	assert.Equal(t, "twitter", p.Platform())

	_, ok = r.Get("linkedin")
	assert.False(t, ok)
}

func TestUnconfiguredPublishersAreNil(t *testing.T) {
	assert.Nil(t, NewTwitterPublisher(""))
	assert.Nil(t, NewLinkedInPublisher(""))
	assert.Nil(t, NewBlueskyPublisher("handle", ""))
	assert.Nil(t, NewRedditPublisher("id", "", "user", "pw"))
	assert.Nil(t, NewTelegramPublisher("tok", ""))
	assert.Nil(t, NewEmailPublisher("key", "from@x.com", ""))
}

func TestTwitterPublish_Thread(t *testing.T) {
	var requests []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		json.Unmarshal(body, &req)
		requests = append(requests, req)
		fmt.Fprintf(w, `{"data":{"id":"%d"}}`, 100+len(requests))
	}))
	defer srv.Close()

	p := NewTwitterPublisher("tok")
	p.baseURL = srv.URL

	url, err := p.Publish(context.Background(), "first tweet\n---\nsecond tweet")
	require.NoError(t, err)
	assert.Equal(t, "https://twitter.com/i/status/101 (thread, 2 tweets)", url)

	require.Len(t, requests, 2)
	assert.Equal(t, "first tweet", requests[0]["text"])
	assert.Nil(t, requests[0]["reply"])
	reply := requests[1]["reply"].(map[string]interface{})
	assert.Equal(t, "101", reply["in_reply_to_tweet_id"])
}

func TestTwitterPublish_SurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewTwitterPublisher("bad")
	p.baseURL = srv.URL
	_, err := p.Publish(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestLinkedInPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/userinfo":
			w.Write([]byte(`{"sub":"abc123"}`))
		case "/v2/ugcPosts":
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"urn:li:person:abc123"`)
			assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
			w.Header().Set("x-restli-id", "urn:li:share:999")
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := NewLinkedInPublisher("tok")
	p.baseURL = srv.URL
	url, err := p.Publish(context.Background(), "a professional post")
	require.NoError(t, err)
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:999", url)
}

func TestBlueskyPublish_ThreadRepliesChainToRoot(t *testing.T) {
	var records []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/xrpc/com.atproto.server.createSession":
			w.Write([]byte(`{"accessJwt":"jwt","did":"did:plc:me"}`))
		case "/xrpc/com.atproto.repo.createRecord":
			assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			var req map[string]interface{}
			json.Unmarshal(body, &req)
			records = append(records, req)
			fmt.Fprintf(w, `{"uri":"at://post/%d","cid":"cid%d"}`, len(records), len(records))
		}
	}))
	defer srv.Close()

	p := NewBlueskyPublisher("me.bsky.social", "app-pass")
	p.baseURL = srv.URL

	url, err := p.Publish(context.Background(), "root post\n---\nmiddle\n---\nlast")
	require.NoError(t, err)
	assert.Equal(t, "at://post/1 (thread, 3 posts)", url)
	require.Len(t, records, 3)

	first := records[0]["record"].(map[string]interface{})
	assert.Nil(t, first["reply"])

	third := records[2]["record"].(map[string]interface{})
	reply := third["reply"].(map[string]interface{})
	root := reply["root"].(map[string]interface{})
	parent := reply["parent"].(map[string]interface{})
	assert.Equal(t, "at://post/1", root["uri"])
	assert.Equal(t, "at://post/2", parent["uri"])
}

func TestRedditPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/access_token":
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "cid", user)
			assert.Equal(t, "csecret", pass)
			w.Write([]byte(`{"access_token":"rtoken"}`))
		case "/api/submit":
			assert.Equal(t, "Bearer rtoken", r.Header.Get("Authorization"))
			r.ParseForm()
			assert.Equal(t, "artificial", r.FormValue("sr"))
			assert.Equal(t, "Big News", r.FormValue("title"))
			assert.Equal(t, "self", r.FormValue("kind"))
			w.Write([]byte(`{"json":{"errors":[],"data":{"url":"https://reddit.com/r/artificial/x"}}}`))
		}
	}))
	defer srv.Close()

	p := NewRedditPublisher("cid", "csecret", "user", "pw")
	p.authBaseURL = srv.URL
	p.apiBaseURL = srv.URL

	url, err := p.Publish(context.Background(), "subreddit: artificial | title: Big News | body: details here")
	require.NoError(t, err)
	assert.Equal(t, "https://reddit.com/r/artificial/x", url)
}

func TestTelegramPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/botbot-token/"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"chat_id":"@mychannel"`)
		w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer srv.Close()

	p := NewTelegramPublisher("bot-token", "@mychannel")
	p.baseURL = srv.URL
	url, err := p.Publish(context.Background(), "channel update")
	require.NoError(t, err)
	assert.Equal(t, "telegram message 42", url)
}

func TestEmailPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"subject":"Weekly AI Digest"`)
		assert.Contains(t, string(body), "font-family:Arial")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	p := NewEmailPublisher("sg-key", "from@x.com", "to@x.com")
	p.baseURL = srv.URL
	url, err := p.Publish(context.Background(), "subject: Weekly AI Digest | body: This week in AI")
	require.NoError(t, err)
	assert.Equal(t, "email sent to to@x.com", url)
}
