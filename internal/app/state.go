package app

import (
	"slices"
	"sync"

	"cryptocast/internal/app/model"
)

type Tab string

const (
	TabNews     Tab = "news"
	TabGenerate Tab = "generate"
	TabPublish  Tab = "publish"
)

type PostStatus string

const (
	PostIdle    PostStatus = "idle"
	PostPosting PostStatus = "posting"
	PostSuccess PostStatus = "success"
	PostPartial PostStatus = "partial"
	PostFailed  PostStatus = "failed"
)

// State is the whole interactive session. Reduce returns a new value for
// every change; slices held by a State are never modified in place.
type State struct {
	Articles      []model.NewsArticle   `json:"articles"`
	Selected      []string              `json:"selected"`
	Tab           Tab                   `json:"tab"`
	Generating    bool                  `json:"generating"`
	GenerationSeq uint64                `json:"generation_seq"`
	GenerateError string                `json:"generate_error,omitempty"`
	Video         *model.GeneratedVideo `json:"video,omitempty"`
	PostStatus    PostStatus            `json:"post_status"`
	PostMessage   string                `json:"post_message,omitempty"`
	LastReport    *PostReport           `json:"last_report,omitempty"`
}

func InitialState() State {
	return State{Tab: TabNews, PostStatus: PostIdle}
}

// SelectedArticles returns the selected articles in feed order.
func (s State) SelectedArticles() []model.NewsArticle {
	var selected []model.NewsArticle
	for _, a := range s.Articles {
		if slices.Contains(s.Selected, a.ID) {
			selected = append(selected, a)
		}
	}
	return selected
}

func (s State) IsSelected(id string) bool {
	return slices.Contains(s.Selected, id)
}

type Action interface {
	action()
}

type ArticlesLoaded struct{ Articles []model.NewsArticle }

type ArticleToggled struct{ ID string }

type SelectionSet struct{ IDs []string }

type TabChanged struct{ Tab Tab }

type GenerationRequested struct{}

// VideoGenerated carries the sequence number handed out by the
// GenerationRequested it answers.
type VideoGenerated struct {
	Seq   uint64
	Video *model.GeneratedVideo
	Err   error
}

type PostStarted struct{}

type PostFinished struct {
	Report *PostReport
	Err    error
}

type PostReset struct{}

func (ArticlesLoaded) action()      {}
func (ArticleToggled) action()      {}
func (SelectionSet) action()        {}
func (TabChanged) action()          {}
func (GenerationRequested) action() {}
func (VideoGenerated) action()      {}
func (PostStarted) action()         {}
func (PostFinished) action()        {}
func (PostReset) action()           {}

func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ArticlesLoaded:
		s.Articles = slices.Clone(a.Articles)
		s.Selected = keepKnown(s.Selected, s.Articles)

	case ArticleToggled:
		if i := slices.Index(s.Selected, a.ID); i >= 0 {
			s.Selected = slices.Delete(slices.Clone(s.Selected), i, i+1)
		} else if hasArticle(s.Articles, a.ID) {
			s.Selected = append(slices.Clone(s.Selected), a.ID)
		}

	case SelectionSet:
		s.Selected = keepKnown(a.IDs, s.Articles)

	case TabChanged:
		s.Tab = a.Tab

	case GenerationRequested:
		s.GenerationSeq++
		s.Generating = true
		s.GenerateError = ""

	case VideoGenerated:
		if a.Seq != s.GenerationSeq {
			return s
		}
		s.Generating = false
		if a.Err != nil {
			s.GenerateError = a.Err.Error()
			return s
		}
		s.Video = a.Video
		s.Tab = TabPublish
		// A running post keeps its status until its PostFinished arrives.
		if s.PostStatus != PostPosting {
			s.PostStatus = PostIdle
			s.PostMessage = ""
			s.LastReport = nil
		}

	case PostStarted:
		if s.PostStatus == PostPosting {
			return s
		}
		s.PostStatus = PostPosting
		s.PostMessage = ""

	case PostFinished:
		if s.PostStatus != PostPosting {
			return s
		}
		if a.Err != nil {
			s.PostStatus = PostFailed
			s.PostMessage = a.Err.Error()
			return s
		}
		s.PostStatus = postStatusFor(a.Report.Outcome)
		s.PostMessage = a.Report.Message
		s.LastReport = a.Report
		if !a.Report.Scheduled {
			s.Video = markPosted(s.Video, a.Report)
		}

	case PostReset:
		if s.PostStatus != PostPosting {
			s.PostStatus = PostIdle
			s.PostMessage = ""
		}
	}
	return s
}

func postStatusFor(o Outcome) PostStatus {
	switch o {
	case OutcomeSuccess:
		return PostSuccess
	case OutcomePartial:
		return PostPartial
	}
	return PostFailed
}

// markPosted returns a copy of video with the flags of every platform that
// accepted the post set.
func markPosted(video *model.GeneratedVideo, report *PostReport) *model.GeneratedVideo {
	if video == nil || video.ID != report.VideoID {
		return video
	}
	updated := *video
	for _, p := range report.Succeeded() {
		switch p {
		case model.PlatformTwitter:
			updated.Platforms.Twitter = true
		case model.PlatformYouTube:
			updated.Platforms.YouTube = true
		case model.PlatformInstagram:
			updated.Platforms.Instagram = true
		}
	}
	return &updated
}

func hasArticle(articles []model.NewsArticle, id string) bool {
	return slices.ContainsFunc(articles, func(a model.NewsArticle) bool { return a.ID == id })
}

func keepKnown(ids []string, articles []model.NewsArticle) []string {
	var kept []string
	for _, id := range ids {
		if hasArticle(articles, id) && !slices.Contains(kept, id) {
			kept = append(kept, id)
		}
	}
	return kept
}

// Session serializes access to a State.
type Session struct {
	mu    sync.Mutex
	state State
}

func NewSession() *Session {
	return &Session{state: InitialState()}
}

// Dispatch applies a and returns the resulting state.
func (s *Session) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// startPost moves the session into posting unless a post is already running.
func (s *Session) startPost() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.PostStatus == PostPosting {
		return false
	}
	s.state = Reduce(s.state, PostStarted{})
	return true
}
