package domain

// Book representa um livro do acervo (a Entidade).
// As chaves JSON seguem o contrato de wire da API (campos em francês),
// tanto nas respostas HTTP quanto no arquivo de persistência.
type Book struct {
	ID     int    `json:"id"`
	Title  string `json:"titre"`
	Author string `json:"auteur"`
	Year   int    `json:"annee"`
	Genre  string `json:"genre"`
}

// BookUpdate representa o payload de atualização parcial de um livro.
// Ponteiros nil indicam "campo não enviado": apenas os campos presentes
// no payload são aplicados, os demais permanecem intactos.
type BookUpdate struct {
	Title  *string `json:"titre"`
	Author *string `json:"auteur"`
	Year   *int    `json:"annee"`
	Genre  *string `json:"genre"`
}
