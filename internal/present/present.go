// Package present maps domain values to deterministic display attributes.
// Every function is pure and total.
package present

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StyleTag is a set of utility classes for a badge.
type StyleTag string

const (
	StyleEasy    StyleTag = "bg-green-100 text-green-700 border-green-200"
	StyleMedium  StyleTag = "bg-yellow-100 text-yellow-700 border-yellow-200"
	StyleHard    StyleTag = "bg-red-100 text-red-700 border-red-200"
	StyleNeutral StyleTag = "bg-gray-100 text-gray-800 border-gray-200"
)

var difficultyVocabulary = []struct {
	style StyleTag
	terms []string
}{
	{StyleEasy, []string{"facil", "easy"}},
	{StyleMedium, []string{"intermedi", "media", "medio", "medium"}},
	{StyleHard, []string{"dificil", "hard"}},
}

// DifficultyStyle matches difficulty against the known vocabulary ignoring
// case and accents, so "Difícil" and "dificil" style the same.
func DifficultyStyle(difficulty string) StyleTag {
	d := Fold(difficulty)
	if d == "" {
		return StyleNeutral
	}
	for _, entry := range difficultyVocabulary {
		for _, term := range entry.terms {
			if strings.Contains(d, term) {
				return entry.style
			}
		}
	}
	return StyleNeutral
}

// Fold lower-cases s and strips combining marks.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		stripped = strings.TrimSpace(s)
	}
	return cases.Fold().String(stripped)
}

// DefaultAvatar is used when there is neither a photo nor a user id.
const DefaultAvatar = "/assets/avatars/default.png"

// Avatars is the fixed set fallback avatars are picked from.
var Avatars = []string{
	"/assets/avatars/avatar-1.png",
	"/assets/avatars/avatar-2.png",
	"/assets/avatars/avatar-3.png",
	"/assets/avatars/avatar-4.png",
	"/assets/avatars/avatar-5.png",
	"/assets/avatars/avatar-6.png",
}

// minPhotoLength is the shortest photo reference taken at face value.
const minPhotoLength = 10

// AvatarFor returns photoURL when it looks usable, otherwise an avatar picked
// from Avatars by the user id. The pick sums the id's UTF-16 code units so
// every client assigns the same avatar to the same user.
func AvatarFor(userID, photoURL string) string {
	if len(utf16.Encode([]rune(photoURL))) > minPhotoLength {
		return photoURL
	}
	if userID == "" || len(Avatars) == 0 {
		return DefaultAvatar
	}
	return Avatars[codeUnitSum(userID)%len(Avatars)]
}

func codeUnitSum(s string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(s)) {
		sum += int(u)
	}
	return sum
}

// Initials returns the first letter of up to two words of name, upper-cased,
// or "?" when name is blank.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "?"
	}
	if len(fields) > 2 {
		fields = fields[:2]
	}
	var b strings.Builder
	for _, f := range fields {
		r := []rune(f)
		b.WriteRune(r[0])
	}
	return cases.Upper(language.Und).String(b.String())
}

// MaxStars is the number of slots in a star rating.
const MaxStars = 5

// Stars returns which of the MaxStars slots are filled for rating.
func Stars(rating float64) []bool {
	filled := int(rating)
	slots := make([]bool, MaxStars)
	for i := range slots {
		slots[i] = i < filled
	}
	return slots
}

var avatarColors = []string{
	"bg-blue-100 text-blue-600",
	"bg-green-100 text-green-600",
	"bg-purple-100 text-purple-600",
	"bg-orange-100 text-orange-600",
}

const noNameColor = "bg-gray-200 text-gray-500"

// AvatarColor picks a color pair for an initials avatar from the first code
// unit of name.
func AvatarColor(name string) string {
	if name == "" {
		return noNameColor
	}
	first := utf16.Encode([]rune(name))[0]
	return avatarColors[int(first)%len(avatarColors)]
}

var badgeIcons = map[string]string{
	"chef-estrella":   "⭐",
	"top-contributor": "🏆",
	"foodie":          "🍔",
}

const defaultBadgeIcon = "🎖️"

func BadgeIcon(badge string) string {
	if icon, ok := badgeIcons[badge]; ok {
		return icon
	}
	return defaultBadgeIcon
}

// BadgeLabel turns a badge slug into its display label: "chef-estrella"
// becomes "CHEF ESTRELLA". Only the first hyphen is replaced.
func BadgeLabel(badge string) string {
	return cases.Upper(language.Und).String(strings.Replace(badge, "-", " ", 1))
}
