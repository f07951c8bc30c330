package models

// CartItem est la forme stockée dans Redis sous "cart:<userID>".
// Seuls l'id et la quantité comptent : nom, prix et image sont relus en base
// au checkout, les champs en trop écrits par le front sont ignorés au décodage.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
