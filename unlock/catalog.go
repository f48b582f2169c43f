package unlock

import "sort"

// Achievement ids.
const (
	JigsawApprentice    = "jigsaw_apprentice"
	SummoningCircle     = "summoning_circle"
	TrueName            = "true_name"
	TruthBeneath        = "truth_beneath"
	MercifulExecutioner = "merciful_executioner"
	Killjoy             = "killjoy"
)

// Codex entry ids.
const (
	CodexRaphael            = "raphael"
	CodexTheConvent         = "the_convent"
	CodexBloodstainedRosary = "bloodstained_rosary"
	CodexMargaretDiary      = "sister_margaret_diary"
	CodexTheBasement        = "the_basement"
	CodexPhilosophersStone  = "philosophers_stone"
)

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Hidden      bool   `json:"hidden"`
}

type CodexEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

var achievements = []Achievement{
	{JigsawApprentice, "Jigsaw's Apprentice", "Recognized the Saw scenario in the White Room", "🎭", false},
	{SummoningCircle, "Summoning Circle", "Found the invocation in the browser console", "👁️", false},
	{TrueName, "True Name", "Discovered Paimon's real identity", "👑", false},
	{TruthBeneath, "The Truth Beneath", "Examined the convent basement and uncovered the crime", "🕯️", false},
	{MercifulExecutioner, "Merciful Executioner", "Tried to save the condemned client in the hangman trial", "⚖️", false},
	{Killjoy, "Killjoy", "Ruined the illusion so many times that Paimon banned you. Three times.", "💀", false},
}

var codex = []CodexEntry{
	{
		ID:          CodexRaphael,
		Title:       "Raphael",
		Category:    "Characters",
		Description: `"God heals" — yet some wounds deepen with His touch. A borrowed mantle, worn by one who rules where light turns to dusk. In the ledger of fallen names, seek the crowned king of the northwest wind.`,
		Icon:        "👤",
		Order:       1,
	},
	{
		ID:          CodexTheConvent,
		Title:       "The Convent of Saint Agnes",
		Category:    "Locations",
		Description: "A mountain convent that stopped answering the bishop's letters two winters ago. The villagers say the bells still ring at night, though nobody climbs the tower.",
		Icon:        "⛪",
		Order:       1,
	},
	{
		ID:          CodexTheBasement,
		Title:       "The Basement",
		Category:    "Locations",
		Description: "Crucibles, lead, and a furnace that has not gone cold in months. Scratched into the wall beside it: the names of every sister who refused to work.",
		Icon:        "🕯️",
		Order:       2,
	},
	{
		ID:          CodexBloodstainedRosary,
		Title:       "Bloodstained Rosary",
		Category:    "Artifacts",
		Description: "Silver beads, worn smooth by praying hands. The blood on them is human. So is the name engraved on the crucifix: Sister Agathe.",
		Icon:        "📿",
		Order:       1,
	},
	{
		ID:          CodexPhilosophersStone,
		Title:       "The Philosopher's Stone",
		Category:    "Artifacts",
		Description: "The abbess believed lead could be made into gold if the work was fed with enough suffering. The symbols in the chapel are her arithmetic.",
		Icon:        "🜔",
		Order:       2,
	},
	{
		ID:          CodexMargaretDiary,
		Title:       "Sister Margaret's Diary",
		Category:    "Documents",
		Description: `"A knight will come. Mother says he will see monsters where we stand, and he will not stop until the work is finished. I pray he looks at our faces."`,
		Icon:        "📖",
		Order:       1,
	},
}

// Achievements returns every achievement in display order.
func Achievements() []Achievement {
	return append([]Achievement(nil), achievements...)
}

func AchievementByID(id string) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// CodexEntries returns every codex entry.
func CodexEntries() []CodexEntry {
	return append([]CodexEntry(nil), codex...)
}

func EntryByID(id string) (CodexEntry, bool) {
	for _, e := range codex {
		if e.ID == id {
			return e, true
		}
	}
	return CodexEntry{}, false
}

// EntriesByCategory returns the entries of one category sorted by Order.
func EntriesByCategory(category string) []CodexEntry {
	var out []CodexEntry
	for _, e := range codex {
		if e.Category == category {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Categories returns the distinct codex categories, sorted.
func Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range codex {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	sort.Strings(out)
	return out
}
