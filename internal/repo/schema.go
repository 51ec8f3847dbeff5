package repo

const tableDrinks = "drinks"

const (
	colID        = "id"
	colTitle     = "title"
	colRecipe    = "recipe"
	colUpdatedAt = "updated_at"
)

// коды SQLSTATE, которые маппятся в доменные ошибки
const (
	pgUniqueViolation  = "23505"
	pgStringTruncation = "22001"
)
