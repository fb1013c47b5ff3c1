package main

import (
	"unicode/utf8"

	"keynotes/beep"
	"keynotes/clipboard"
	"keynotes/log"
	"keynotes/notes"
	"keynotes/paste"
)

// EventSink receives every state change made by the ingestion loop,
// together with the state that change produced.
type EventSink interface {
	Changed(out notes.Outcome, snap notes.Snapshot)
}

// SinkFunc adapts a function literal to the EventSink interface.
type SinkFunc func(out notes.Outcome, snap notes.Snapshot)

func (f SinkFunc) Changed(out notes.Outcome, snap notes.Snapshot) {
	f(out, snap)
}

// feedback logs transitions, plays the cues, optionally copies or pastes
// committed notes, and forwards the new state to the TUI.
type feedback struct {
	copyNotes  bool
	pasteNotes bool
}

func (f *feedback) Changed(out notes.Outcome, snap notes.Snapshot) {
	switch out {
	case notes.Started:
		log.RecordingStarted()
		beep.Play(beep.CueStart)
	case notes.Committed:
		note := snap.Notes[len(snap.Notes)-1]
		log.NoteCommitted(utf8.RuneCountInString(note), len(snap.Notes))
		beep.Play(beep.CueCommit)
		switch {
		case f.pasteNotes:
			if err := paste.Note(note); err != nil {
				log.Warnf("paste note: %v", err)
			}
		case f.copyNotes:
			if err := clipboard.Copy(note); err != nil {
				log.Warnf("copy note: %v", err)
			}
		}
	case notes.Discarded:
		log.RecordingDiscarded()
		beep.Play(beep.CueCancel)
	case notes.Cancelled:
		log.RecordingCancelled()
		beep.Play(beep.CueCancel)
	}
	tuiSend(StateMsg{Snapshot: snap})
}
