package review

const (
	textRequestHeader  = "📥 Новая заявка в клан XARIZMA!"
	textScreenshotNote = "📸 Скрин из профиля CPM"

	labelApprove = "✅ Одобрить"
	labelReject  = "❌ Отклонить"

	textApproved = "✅ Твоя заявка одобрена.\n" +
		"Добро пожаловать в clan.\n" +
		"Здесь ценят спокойствие, уверенность и силу."
	textRejected = "❌ Твоя заявка отклонена"
)
