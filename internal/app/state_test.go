package app

import (
	"errors"
	"slices"
	"testing"

	"cryptocast/internal/app/model"
)

func articles(ids ...string) []model.NewsArticle {
	out := make([]model.NewsArticle, len(ids))
	for i, id := range ids {
		out[i] = model.NewsArticle{ID: id, Title: "Article " + id}
	}
	return out
}

func TestReduceSelection(t *testing.T) {
	s := Reduce(InitialState(), ArticlesLoaded{Articles: articles("a", "b", "c")})

	s = Reduce(s, ArticleToggled{ID: "c"})
	s = Reduce(s, ArticleToggled{ID: "a"})
	s = Reduce(s, ArticleToggled{ID: "missing"})
	if !slices.Equal(s.Selected, []string{"c", "a"}) {
		t.Fatalf("Selected = %v", s.Selected)
	}

	got := s.SelectedArticles()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("SelectedArticles() = %v, want feed order a, c", got)
	}

	s = Reduce(s, ArticleToggled{ID: "c"})
	if !slices.Equal(s.Selected, []string{"a"}) {
		t.Errorf("Selected after untoggle = %v", s.Selected)
	}

	s = Reduce(s, SelectionSet{IDs: []string{"b", "b", "zzz"}})
	if !slices.Equal(s.Selected, []string{"b"}) {
		t.Errorf("Selected after set = %v", s.Selected)
	}

	s = Reduce(s, ArticlesLoaded{Articles: articles("x", "y")})
	if len(s.Selected) != 0 {
		t.Errorf("Selected after reload = %v, want empty", s.Selected)
	}
}

func TestReduceDoesNotMutatePrevious(t *testing.T) {
	before := Reduce(InitialState(), ArticlesLoaded{Articles: articles("a", "b")})
	before = Reduce(before, ArticleToggled{ID: "a"})

	after := Reduce(before, ArticleToggled{ID: "b"})
	after = Reduce(after, ArticleToggled{ID: "a"})

	if !slices.Equal(before.Selected, []string{"a"}) {
		t.Errorf("previous state changed: %v", before.Selected)
	}
	if !slices.Equal(after.Selected, []string{"b"}) {
		t.Errorf("Selected = %v", after.Selected)
	}
}

func TestReduceDropsStaleGeneration(t *testing.T) {
	s := Reduce(InitialState(), GenerationRequested{})
	first := s.GenerationSeq
	s = Reduce(s, GenerationRequested{})
	second := s.GenerationSeq

	s = Reduce(s, VideoGenerated{Seq: second, Video: &model.GeneratedVideo{ID: "new"}})
	s = Reduce(s, VideoGenerated{Seq: first, Video: &model.GeneratedVideo{ID: "old"}})

	if s.Video == nil || s.Video.ID != "new" {
		t.Errorf("Video = %+v, want new", s.Video)
	}
	if s.Generating {
		t.Error("Generating = true after completion")
	}
	if s.Tab != TabPublish {
		t.Errorf("Tab = %s, want publish", s.Tab)
	}
}

func TestReduceGenerationError(t *testing.T) {
	s := Reduce(InitialState(), GenerationRequested{})
	s = Reduce(s, VideoGenerated{Seq: s.GenerationSeq, Err: errors.New("invalid")})

	if s.Generating || s.GenerateError != "invalid" || s.Video != nil {
		t.Errorf("state = %+v", s)
	}
}

func TestReducePostLifecycle(t *testing.T) {
	video := &model.GeneratedVideo{ID: "video-1"}
	s := Reduce(InitialState(), GenerationRequested{})
	s = Reduce(s, VideoGenerated{Seq: s.GenerationSeq, Video: video})

	s = Reduce(s, PostFinished{Report: &PostReport{Outcome: OutcomeSuccess}})
	if s.PostStatus != PostIdle {
		t.Fatalf("PostFinished without PostStarted changed status to %s", s.PostStatus)
	}

	s = Reduce(s, PostStarted{})
	if s.PostStatus != PostPosting {
		t.Fatalf("PostStatus = %s, want posting", s.PostStatus)
	}

	report := &PostReport{
		VideoID: "video-1",
		Outcome: OutcomePartial,
		Message: "Posted to Twitter; failed on YouTube",
		Results: []PlatformResult{
			{Platform: model.PlatformTwitter, Result: &model.SocialPostResult{Success: true}},
			{Platform: model.PlatformYouTube, Result: &model.SocialPostResult{Success: false}},
		},
	}
	s = Reduce(s, PostFinished{Report: report})
	if s.PostStatus != PostPartial || s.PostMessage != report.Message {
		t.Errorf("state = %s %q", s.PostStatus, s.PostMessage)
	}
	if !s.Video.Platforms.Twitter || s.Video.Platforms.YouTube {
		t.Errorf("Platforms = %+v", s.Video.Platforms)
	}
	if video.Platforms.Twitter {
		t.Error("original video record was mutated")
	}

	s = Reduce(s, PostReset{})
	if s.PostStatus != PostIdle || s.PostMessage != "" {
		t.Errorf("after reset = %s %q", s.PostStatus, s.PostMessage)
	}
}

func TestReduceScheduledPostKeepsFlags(t *testing.T) {
	s := InitialState()
	s.Video = &model.GeneratedVideo{ID: "video-1"}
	s = Reduce(s, PostStarted{})
	s = Reduce(s, PostFinished{Report: &PostReport{
		VideoID:   "video-1",
		Scheduled: true,
		Outcome:   OutcomeSuccess,
		Results:   []PlatformResult{{Platform: model.PlatformTwitter, Result: &model.SocialPostResult{Success: true}}},
	}})

	if s.PostStatus != PostSuccess {
		t.Errorf("PostStatus = %s", s.PostStatus)
	}
	if s.Video.Platforms.Twitter {
		t.Error("scheduling should not mark the video as posted")
	}
}

func TestReducePostFailure(t *testing.T) {
	s := Reduce(InitialState(), PostStarted{})
	s = Reduce(s, PostFinished{Err: errors.New("network down")})
	if s.PostStatus != PostFailed || s.PostMessage != "network down" {
		t.Errorf("state = %s %q", s.PostStatus, s.PostMessage)
	}
}

func TestSessionStartPost(t *testing.T) {
	session := NewSession()
	if !session.startPost() {
		t.Fatal("first startPost() = false")
	}
	if session.startPost() {
		t.Error("second startPost() = true while posting")
	}
	session.Dispatch(PostFinished{Report: &PostReport{Outcome: OutcomeFailed}})
	if !session.startPost() {
		t.Error("startPost() = false after the previous post finished")
	}
}

func TestGenerationDuringPostKeepsPosting(t *testing.T) {
	session := NewSession()
	session.Dispatch(VideoGenerated{Seq: session.Dispatch(GenerationRequested{}).GenerationSeq, Video: &model.GeneratedVideo{ID: "video-1"}})
	if !session.startPost() {
		t.Fatal("startPost() = false on an idle session")
	}

	seq := session.Dispatch(GenerationRequested{}).GenerationSeq
	s := session.Dispatch(VideoGenerated{Seq: seq, Video: &model.GeneratedVideo{ID: "video-2"}})
	if s.PostStatus != PostPosting {
		t.Fatalf("PostStatus = %s after generation, want posting", s.PostStatus)
	}
	if s.Video.ID != "video-2" {
		t.Errorf("Video = %s, want video-2", s.Video.ID)
	}
	if session.startPost() {
		t.Fatal("startPost() = true while the first post is running")
	}

	s = session.Dispatch(PostFinished{Report: &PostReport{
		VideoID: "video-1",
		Outcome: OutcomeSuccess,
		Results: []PlatformResult{{Platform: model.PlatformTwitter, Result: &model.SocialPostResult{Success: true}}},
	}})
	if s.PostStatus != PostSuccess {
		t.Errorf("PostStatus = %s, want success", s.PostStatus)
	}
	if s.Video.Platforms.Twitter {
		t.Error("report for video-1 marked video-2 as posted")
	}
}
