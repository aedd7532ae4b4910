package form

// Reply keyboard labels offered with the consent prompt.
const (
	ConsentYes = "✅ Да"
	ConsentNo  = "❌ Нет"
)

const (
	textGreeting      = "🍀 Привет! Хочешь оставить заявку на вступление в клан?"
	textAskAge        = "✅ Отлично! Сколько тебе лет? 🔞"
	textDeclined      = "😌 Хорошо. Возможно, твоя харизма ещё раскрывается. Успех любит время. ☘️"
	textAskGameID     = "💻✍🏻 Отправь свой ID из CPM."
	textAskScreenshot = "📸 Отлично! Теперь отправь такой же скрин из своего профиля CPM 👆🏻"
	textSubmitted     = "☘️ Твоя заявка отправлена и сейчас находится на рассмотрении. 🕒"
	textNeedPhoto     = "⚠️ Пожалуйста, отправь фото из профиля CPM."
	textNeedAge       = "✍🏻 Напиши свой возраст обычным сообщением. 🔞"
	textNeedGameID    = "✍🏻 Отправь свой ID из CPM текстом."
)
