package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyStyle(t *testing.T) {
	tests := []struct {
		in   string
		want StyleTag
	}{
		{"Fácil", StyleEasy},
		{"facil", StyleEasy},
		{"Easy", StyleEasy},
		{"Intermedio", StyleMedium},
		{"Media", StyleMedium},
		{"medium", StyleMedium},
		{"Difícil", StyleHard},
		{"dificil", StyleHard},
		{"DIFÍCIL", StyleHard},
		{"Hard", StyleHard},
		{"", StyleNeutral},
		{"   ", StyleNeutral},
		{"experto", StyleNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DifficultyStyle(tt.in))
		})
	}
}

func TestAvatarFor(t *testing.T) {
	assert.Equal(t, DefaultAvatar, AvatarFor("", ""))
	assert.Equal(t, "http://x/img.png", AvatarFor("abc", "http://x/img.png"))

	// "abc" sums to 97+98+99 = 294, 294 % 6 = 0.
	assert.Equal(t, Avatars[0], AvatarFor("abc", ""))
	assert.Equal(t, Avatars[0], AvatarFor("abc", "short.png"))

	// Same id, same avatar.
	assert.Equal(t, AvatarFor("user-42", ""), AvatarFor("user-42", ""))
	assert.Contains(t, Avatars, AvatarFor("user-42", ""))
}

func TestAvatarForCountsCodeUnits(t *testing.T) {
	// U+1F600 is the surrogate pair D83D DE00.
	want := (0xD83D + 0xDE00) % len(Avatars)
	assert.Equal(t, Avatars[want], AvatarFor("😀", ""))
}

func TestAvatarForPhotoLengthInCodeUnits(t *testing.T) {
	// Six emoji are six runes but twelve UTF-16 code units.
	photo := "😀😀😀😀😀😀"
	assert.Equal(t, photo, AvatarFor("abc", photo))
	// Five emoji are exactly ten code units, not longer than ten.
	assert.Equal(t, Avatars[0], AvatarFor("abc", "😀😀😀😀😀"))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "MG", Initials("maría garcía lópez"))
	assert.Equal(t, "A", Initials("ana"))
	assert.Equal(t, "ÁB", Initials("  álvaro   bravo "))
	assert.Equal(t, "?", Initials(""))
	assert.Equal(t, "?", Initials("   "))
}

func TestStars(t *testing.T) {
	assert.Equal(t, []bool{true, true, true, true, false}, Stars(4.25))
	assert.Equal(t, []bool{false, false, false, false, false}, Stars(0))
	assert.Equal(t, []bool{true, true, true, true, true}, Stars(5))
}

func TestAvatarColor(t *testing.T) {
	assert.Equal(t, noNameColor, AvatarColor(""))
	// 'A' is 65, 65 % 4 = 1.
	assert.Equal(t, avatarColors[1], AvatarColor("Ana"))
}

func TestBadges(t *testing.T) {
	assert.Equal(t, "⭐", BadgeIcon("chef-estrella"))
	assert.Equal(t, "🎖️", BadgeIcon("unknown"))
	assert.Equal(t, "CHEF ESTRELLA", BadgeLabel("chef-estrella"))
	assert.Equal(t, "TOP CONTRIBUTOR", BadgeLabel("top-contributor"))
	assert.Equal(t, "A B-C", BadgeLabel("a-b-c"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "pinon", Fold(" Piñón "))
}
