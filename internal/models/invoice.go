package models

// InvoiceFile представляет содержимое прикреплённого чека,
// прочитанное из multipart-запроса перед загрузкой в объектное хранилище.
type InvoiceFile struct {
	Data        []byte // Содержимое файла
	Filename    string // Исходное имя файла
	ContentType string // MIME-тип файла
}
