package ai

import (
	"fmt"
)

// Forwarded document context is capped so prompts stay inside the model's
// input budget; the relevance layer already picked the best document.
const maxContextChars = 4000

const systemMessage = `Sen BİLGİN adlı akıllı öğretim asistanısın. Görevin:

1. ÖĞRENME: Sana verilen akademik makaleler, örnek sorular ve çözümlerden öğrenmek
2. ÇIKARIM: Öğrendiklerinle benzer soruları çözmek ve yeni cevaplar üretmek
3. ÖĞRETME: Kullanıcının seviyesine uygun, anlaşılır açıklamalar yapmak

ÖNEMLİ KURALLAR:
- Sadece alıntı yapma, öğrendiklerinden yeni çıkarımlar yap
- Örneklerdeki mantığı anlayıp benzer sorulara uygula
- Adım adım çözüm yöntemleri göster
- Kavramları basit örneklerle açıkla
- Türkçe ve anlaşılır ol
- Eğer emin değilsen, "Bu konuda daha fazla örneğe ihtiyacım var" de

SEN BİR ÖĞRETMEN GİBİ DAVRAN, SADECE KOPYALA-YAPIŞTIR YAPAN BİR BOT DEĞİL.`

// BuildPrompt renders the user prompt. With document content the model is
// asked to teach from the source; without it, to answer from general
// knowledge.
func BuildPrompt(question, documentContent string) string {
	if documentContent != "" {
		if runes := []rune(documentContent); len(runes) > maxContextChars {
			documentContent = string(runes[:maxContextChars])
		}
		return fmt.Sprintf(`ÖĞRENME KAYNAĞI:
%s

ÖĞRENCİ SORUSU: %s

Yukarıdaki kaynaktan öğrendiğin bilgi, yöntem ve mantığı kullanarak soruyu cevapla.
Sadece metni kopyalama, öğrendiklerini UYGULA:

1. Konuyu kendi cümlelerinle açıkla
2. Varsa benzer örnekler ver
3. Adım adım çözüm yolu göster
4. Kavramları günlük hayattan örneklerle destekle
5. Eğer kaynak yeterli değilse, genel bilginle tamamla

Unutma: Sen bir ÖĞRETMEN olarak cevap veriyorsun!`, documentContent, question)
	}

	return fmt.Sprintf(`ÖĞRENCİ SORUSU: %s

Bu soruyu öğretmen olarak cevapla:
1. Konuyu basit dille açıkla
2. Örneklerle destekle
3. Adım adım anlat
4. Anlaşılır ol

Eğer bu konuda daha önce sana yüklenen örnekler varsa onlardan yararlan, yoksa genel eğitim bilginle cevapla.`, question)
}
