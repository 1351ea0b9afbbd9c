// Package editor implements the course draft editor as a pure state machine.
// The UI (or any other caller) dispatches actions against an immutable State;
// Apply returns a new State and never mutates its input, so drafts can be
// snapshotted, diffed, or discarded freely.
package editor

import (
	"sort"

	"app/internal/model"
)

// DraftLecture is a lecture being authored. Validation of title, duration,
// and video URL happens before dispatching AddLecture; the reducer itself
// accepts whatever it is given.
type DraftLecture struct {
	LectureID       string
	Order           int
	Title           string
	DurationMinutes float64
	VideoSource     string
	URL             string
	IsPreviewFree   bool
}

// DraftChapter is a chapter being authored. Collapsed is presentation state
// only and is dropped by CourseContent.
type DraftChapter struct {
	ChapterID string
	Order     int
	Title     string
	Collapsed bool
	Lectures  []DraftLecture
}

// State is the full editor draft. The zero value is a valid empty draft.
type State struct {
	Title    string
	Price    float64
	Discount float64
	Image    string
	Chapters []DraftChapter
}

// Action is one editor operation. Exactly one of the dispatch helpers below
// should be used to construct it.
type Action struct {
	kind         actionKind
	title        string
	price        float64
	discount     float64
	image        string
	chapterID    string
	lectureIndex int
	lecture      DraftLecture
}

type actionKind int

const (
	actionSetTitle actionKind = iota
	actionSetPrice
	actionSetDiscount
	actionSetImage
	actionAddChapter
	actionRemoveChapter
	actionToggleChapter
	actionAddLecture
	actionRemoveLecture
	actionReset
)

func SetTitle(title string) Action { return Action{kind: actionSetTitle, title: title} }

func SetPrice(price float64) Action { return Action{kind: actionSetPrice, price: price} }

func SetDiscount(d float64) Action { return Action{kind: actionSetDiscount, discount: d} }

func SetImage(image string) Action { return Action{kind: actionSetImage, image: image} }

func AddChapter(id, title string) Action {
	return Action{kind: actionAddChapter, chapterID: id, title: title}
}

func RemoveChapter(id string) Action { return Action{kind: actionRemoveChapter, chapterID: id} }

func ToggleChapter(id string) Action { return Action{kind: actionToggleChapter, chapterID: id} }

func Reset() Action { return Action{kind: actionReset} }

func AddLecture(chapterID string, lecture DraftLecture) Action {
	return Action{kind: actionAddLecture, chapterID: chapterID, lecture: lecture}
}

func RemoveLecture(chapterID string, index int) Action {
	return Action{kind: actionRemoveLecture, chapterID: chapterID, lectureIndex: index}
}

// Apply runs one action against the state and returns the result. Every
// action is total: unknown chapter ids and out-of-range indices are no-ops,
// and the input state is never modified.
func Apply(s State, a Action) State {
	switch a.kind {
	case actionSetTitle:
		s.Title = a.title
	case actionSetPrice:
		s.Price = a.price
	case actionSetDiscount:
		s.Discount = a.discount
	case actionSetImage:
		s.Image = a.image
	case actionAddChapter:
		if a.title == "" {
			return s
		}
		order := 1
		for _, ch := range s.Chapters {
			if ch.Order >= order {
				order = ch.Order + 1
			}
		}
		chapters := cloneChapters(s.Chapters)
		s.Chapters = append(chapters, DraftChapter{
			ChapterID: a.chapterID,
			Order:     order,
			Title:     a.title,
		})
	case actionRemoveChapter:
		// Remaining chapters keep their order values; gaps are fine.
		chapters := make([]DraftChapter, 0, len(s.Chapters))
		for _, ch := range cloneChapters(s.Chapters) {
			if ch.ChapterID != a.chapterID {
				chapters = append(chapters, ch)
			}
		}
		s.Chapters = chapters
	case actionToggleChapter:
		chapters := cloneChapters(s.Chapters)
		for i := range chapters {
			if chapters[i].ChapterID == a.chapterID {
				chapters[i].Collapsed = !chapters[i].Collapsed
			}
		}
		s.Chapters = chapters
	case actionAddLecture:
		chapters := cloneChapters(s.Chapters)
		for i := range chapters {
			if chapters[i].ChapterID == a.chapterID {
				lecture := a.lecture
				lecture.Order = len(chapters[i].Lectures) + 1
				chapters[i].Lectures = append(chapters[i].Lectures, lecture)
			}
		}
		s.Chapters = chapters
	case actionRemoveLecture:
		chapters := cloneChapters(s.Chapters)
		for i := range chapters {
			if chapters[i].ChapterID != a.chapterID {
				continue
			}
			if a.lectureIndex < 0 || a.lectureIndex >= len(chapters[i].Lectures) {
				continue
			}
			chapters[i].Lectures = append(
				chapters[i].Lectures[:a.lectureIndex],
				chapters[i].Lectures[a.lectureIndex+1:]...,
			)
		}
		s.Chapters = chapters
	case actionReset:
		return State{}
	}
	return s
}

// cloneChapters deep-copies the chapter slice so Apply can modify the copy
// without touching the caller's state.
func cloneChapters(chapters []DraftChapter) []DraftChapter {
	out := make([]DraftChapter, len(chapters))
	copy(out, chapters)
	for i := range out {
		lectures := make([]DraftLecture, len(out[i].Lectures))
		copy(lectures, out[i].Lectures)
		out[i].Lectures = lectures
	}
	return out
}

// CourseContent projects the draft into persistable course content: chapters
// and lectures sorted by their order fields, collapsed flag dropped. Order is
// the sort key throughout, never array position.
func (s State) CourseContent() model.ChapterList {
	chapters := cloneChapters(s.Chapters)
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Order < chapters[j].Order
	})

	out := make(model.ChapterList, 0, len(chapters))
	for _, ch := range chapters {
		sort.SliceStable(ch.Lectures, func(i, j int) bool {
			return ch.Lectures[i].Order < ch.Lectures[j].Order
		})
		lectures := make([]model.Lecture, 0, len(ch.Lectures))
		for _, l := range ch.Lectures {
			lectures = append(lectures, model.Lecture{
				LectureID:       l.LectureID,
				Order:           l.Order,
				Title:           l.Title,
				DurationMinutes: l.DurationMinutes,
				VideoSource:     l.VideoSource,
				URL:             l.URL,
				IsPreviewFree:   l.IsPreviewFree,
			})
		}
		out = append(out, model.Chapter{
			ChapterID: ch.ChapterID,
			Order:     ch.Order,
			Title:     ch.Title,
			Lectures:  lectures,
		})
	}
	return out
}
