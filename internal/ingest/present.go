package ingest

// Badge is the display descriptor for a dispatched transaction.
type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
	Emoji string `json:"emoji"`
}

// Presentation maps a transaction to its badge and the deep link into the
// module that owns it.
type Presentation struct {
	Badge Badge  `json:"badge"`
	Link  string `json:"link"`
}

var badges = map[AssetType]Badge{
	AssetCash:        {Label: "Cash", Tone: "emerald", Emoji: "💵"},
	AssetGold:        {Label: "Gold", Tone: "yellow", Emoji: "🥇"},
	AssetStock:       {Label: "Stock", Tone: "blue", Emoji: "📈"},
	AssetBond:        {Label: "Bond", Tone: "purple", Emoji: "📜"},
	AssetExpense:     {Label: "Expense", Tone: "red", Emoji: "💰"},
	AssetIncome:      {Label: "Income", Tone: "emerald", Emoji: "💵"},
	AssetBankDeposit: {Label: "Deposit", Tone: "indigo", Emoji: "🏦"},
}

var moduleLinks = map[AssetType]string{
	AssetCash:        "/",
	AssetGold:        "/gold",
	AssetStock:       "/stocks",
	AssetBond:        "/bonds",
	AssetExpense:     "/expenses",
	AssetIncome:      "/",
	AssetBankDeposit: "/",
}

// PresentResult maps a transaction's classification to its badge and
// module link. It is pure and total: unrecognized asset types fall back
// to the expense style, never an error.
func PresentResult(tx Transaction) Presentation {
	badge, ok := badges[tx.AssetType]
	if !ok {
		badge = badges[AssetExpense]
	}
	link, ok := moduleLinks[tx.AssetType]
	if !ok {
		link = "/"
	}
	return Presentation{Badge: badge, Link: link}
}
