package main

type Translations map[string]string

type Language struct {
	found bool
	tr    Translations
}

type TransPool struct {
	languages map[string]*Language
}

// Built-in tables for the invitation languages. Missing languages and
// missing keys fall back to the English source string.
var translations = map[string]Translations{
	"id": {
		"Name cannot be empty.":                  "Nama tidak boleh kosong.",
		"Comments cannot be empty.":              "Komentar tidak boleh kosong.",
		"Gif cannot be empty.":                   "Gif tidak boleh kosong.",
		"Please select your attendance status.":  "Silakan pilih status kehadiranmu.",
		"Please wait before posting again.":      "Mohon tunggu sebelum mengirim lagi.",
		"Are you sure?":                          "Apakah kamu yakin?",
		"Show replies":                           "Tampilkan balasan",
		"Hide replies":                           "Sembunyikan balasan",
		"Let's share this invitation to get more comments!": "Nah, bagikan undangan ini supaya komentarnya makin ramai!",
	},
	"vi": {
		"Name cannot be empty.":                  "Tên không được để trống.",
		"Comments cannot be empty.":              "Lời chúc không được để trống.",
		"Gif cannot be empty.":                   "Gif không được để trống.",
		"Please select your attendance status.":  "Vui lòng chọn trạng thái tham dự.",
		"Please wait before posting again.":      "Vui lòng đợi trước khi gửi lại.",
		"Are you sure?":                          "Bạn có chắc không?",
		"Show replies":                           "Hiện phản hồi",
		"Hide replies":                           "Ẩn phản hồi",
		"Let's share this invitation to get more comments!": "Hãy chia sẻ thiệp mời này để có thêm nhiều lời chúc nhé!",
	},
}

func NewTransPool() *TransPool {
	return &TransPool{
		languages: make(map[string]*Language),
	}
}

func NewLanguage(lang string) *Language {
	tr, found := translations[lang]
	if !found {
		tr = make(Translations)
	}
	return &Language{
		found: found,
		tr:    tr,
	}
}

func (tp *TransPool) Get(lang string) *Language {
	l, ok := tp.languages[lang]
	if !ok {
		l = NewLanguage(lang)
		tp.languages[lang] = l
	}
	return l
}

func (l *Language) Lang(text string) string {
	if !l.found {
		// Language was not found, return the string
		return text
	}
	res, ok := l.tr[text]
	if !ok {
		// Key was not found
		return text
	}
	return res
}
