package models

import (
	"testing"
	"time"
)

func TestChatIDCommutative(t *testing.T) {
	cases := []struct {
		a, b uint
		want string
	}{
		{1, 2, "1_2"},
		{2, 1, "1_2"},
		{7, 7, "7_7"},
		{42, 9, "9_42"},
	}
	for _, tc := range cases {
		if got := ChatID(tc.a, tc.b); got != tc.want {
			t.Errorf("ChatID(%d, %d) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
		if ChatID(tc.a, tc.b) != ChatID(tc.b, tc.a) {
			t.Errorf("ChatID(%d, %d) != ChatID(%d, %d)", tc.a, tc.b, tc.b, tc.a)
		}
	}
}

func TestHasParticipant(t *testing.T) {
	chat := Chat{ID: ChatID(3, 9), ParticipantA: 3, ParticipantB: 9}
	if !chat.HasParticipant(3) || !chat.HasParticipant(9) {
		t.Error("both participants must be members")
	}
	if chat.HasParticipant(4) {
		t.Error("non-participant must not be a member")
	}
}

func TestApplySummaryNeverRegresses(t *testing.T) {
	base := time.Now().UTC()
	chat := Chat{ID: ChatID(1, 2), ParticipantA: 1, ParticipantB: 2}

	first := Message{SenderID: 1, Text: "first", Timestamp: base}
	if !chat.ApplySummary(&first) {
		t.Fatal("first message should become the summary")
	}
	newer := Message{SenderID: 2, Text: "newer", Timestamp: base.Add(time.Second)}
	if !chat.ApplySummary(&newer) {
		t.Fatal("newer message should replace the summary")
	}

	// A delayed older send must not roll the summary back.
	stale := Message{SenderID: 1, Text: "stale", Timestamp: base.Add(-time.Second)}
	if chat.ApplySummary(&stale) {
		t.Error("older message must not become the summary")
	}
	if chat.LastMessage != "newer" || chat.LastSenderID != 2 || !chat.LastTimestamp.Equal(base.Add(time.Second)) {
		t.Errorf("summary regressed: %q from %d at %v", chat.LastMessage, chat.LastSenderID, chat.LastTimestamp)
	}

	// Equal timestamps take the later write.
	tie := Message{SenderID: 1, Text: "tie", Timestamp: base.Add(time.Second)}
	if !chat.ApplySummary(&tie) {
		t.Error("equal-timestamp message should win")
	}
	if chat.LastMessage != "tie" {
		t.Errorf("LastMessage = %q, want tie", chat.LastMessage)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	m := Message{ID: "m1", SenderID: 1}

	if m.MarkRead(1) {
		t.Error("sender must not mark their own message")
	}
	if m.Seen {
		t.Fatal("seen flipped by the sender")
	}

	if !m.MarkRead(2) {
		t.Error("first read should flip seen")
	}
	if !m.Seen {
		t.Fatal("seen not set after read")
	}

	// Reading again changes nothing; seen never reverts.
	if m.MarkRead(2) {
		t.Error("second read must be a no-op")
	}
	if !m.Seen {
		t.Error("seen reverted")
	}
}

func TestUnreadCount(t *testing.T) {
	msgs := []Message{
		{SenderID: 1, Seen: false}, // viewer's own, never unread
		{SenderID: 2, Seen: false},
		{SenderID: 2, Seen: true},
		{SenderID: 2, Seen: false},
	}
	if got := UnreadCount(msgs, 1); got != 2 {
		t.Errorf("UnreadCount(viewer=1) = %d, want 2", got)
	}
	if got := UnreadCount(msgs, 2); got != 1 {
		t.Errorf("UnreadCount(viewer=2) = %d, want 1", got)
	}
	if got := UnreadCount(nil, 1); got != 0 {
		t.Errorf("UnreadCount(nil) = %d, want 0", got)
	}
}
