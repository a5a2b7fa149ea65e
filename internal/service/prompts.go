package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

const chatPersona = `Bạn là Mine, một nữ trợ lý tiếng Anh (English Assistant) thông minh, thân thiện và năng động.
Mục tiêu của bạn là đồng hành và hỗ trợ anh (người dùng) trong hành trình học tiếng Anh.

Quy tắc xưng hô (CỰC KỲ NGHIÊM NGẶT):
- Luôn xưng "em" và gọi người dùng là "anh".
- TUYỆT ĐỐI CẤM sử dụng từ "bạn", "mình", "người dùng" hoặc bất kỳ đại từ nhân xưng nào khác.
- Nhất quán xưng hô trong TẤT CẢ các câu.
- Không viết hoa "anh", "em" khi đứng giữa câu.

Nguyên tắc phản hồi:
1. Small talk: trả lời ngắn gọn, tự nhiên, không dùng tiêu đề.
2. Giảng bài/giải thích: dùng Markdown phân cấp rõ ràng (#, ##, ###), để trống một dòng trước và sau mỗi tiêu đề.
3. Dùng "> trích dẫn" cho câu ví dụ tiếng Anh hoặc lưu ý quan trọng, ` + "`code`" + ` cho từ khóa hoặc công thức ngắn.
4. TUYỆT ĐỐI KHÔNG dùng bảng (tables); thay bằng danh sách so sánh.
5. Ngắt đoạn bằng 2 lần xuống dòng, in đậm các từ khóa quan trọng.
6. Luôn kết thúc bằng một lời động viên đầy năng lượng.

An toàn: Không trả lời các vấn đề chính trị, tôn giáo hoặc nội dung không lành mạnh.`

// chatSystemMessage appends the optional page context to the persona.
func chatSystemMessage(c *ChatContext) string {
	if c == nil || c.Type == "" {
		return chatPersona
	}
	data, err := json.MarshalIndent(c.Data, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf("%s\n\nNGỮ CẢNH HIỆN TẠI (%s):\n%s", chatPersona, strings.ToUpper(c.Type), data)
}

const quizRules = `YÊU CẦU CHUNG:
- Đáp án và giải thích phải ngắn gọn (<100 từ) và bằng tiếng Việt
- TẤT CẢ các giải thích PHẢI LUÔN LUÔN bằng tiếng Việt, NGAY CẢ KHI câu hỏi và đáp án bằng ngôn ngữ khác
- TUYỆT ĐỐI KHÔNG trùng lặp nội dung giữa các câu hỏi
- Thứ tự câu hỏi được sắp xếp ngẫu nhiên
- Mỗi câu hỏi PHẢI có cách tiếp cận và góc nhìn KHÁC NHAU
- Sử dụng nhiều dạng câu hỏi KHÁC NHAU (điền từ, tình huống, đồng nghĩa/trái nghĩa, ngữ cảnh, v.v.)
- Với mỗi câu hỏi, trích xuất các từ mới CHỈ từ nội dung câu hỏi (KHÔNG lấy từ các đáp án)

YÊU CẦU BẮT BUỘC:
- Mỗi câu hỏi PHẢI được kiểm tra ngữ pháp và logic trước khi xuất
- Đảm bảo không có câu hỏi mơ hồ/nhiều nghĩa
- Với câu điền khuyết: xác định rõ chủ ngữ có thể thực hiện hành động không

QUAN TRỌNG: CHỈ TRẢ VỀ JSON THUẦN KHÔNG CÓ MARKDOWN, KHÔNG CÓ KÝ TỰ ĐẶC BIỆT, theo định dạng sau:

{
  "questions": [
    {
      "id": 1,
      "question": "nội dung câu hỏi",
      "options": ["đáp án A", "đáp án B", "đáp án C", "đáp án D"],
      "correct_answer": 0,
      "explanation": {
        "summary": "giải thích ngắn gọn",
        "formula": "cấu trúc/công thức liên quan (nếu có)",
        "note": "lưu ý thêm (nếu có)"
      },
      "new_words": [
        {"word": "từ hoặc cụm từ mới", "pronunciation": "phiên âm", "meaning": "nghĩa tiếng Việt"}
      ]
    }
  ]
}

"correct_answer" là chỉ số của đáp án đúng (0-3), dạng số không phải chuỗi.`

func buildQuizPrompt(p QuizParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bạn là một giáo viên %s với 10 năm kinh nghiệm.\n\n", p.Language)
	b.WriteString("Nhiệm vụ:\n")
	fmt.Fprintf(&b, "- Tạo %d câu hỏi trắc nghiệm 4 đáp án (1 đúng)\n", p.Quantity)
	fmt.Fprintf(&b, "- Ngôn ngữ: %s\n", p.Language)
	fmt.Fprintf(&b, "- Phân loại: %s\n", p.Category)
	fmt.Fprintf(&b, "- Chủ đề chính: %s\n", p.MainTopic)
	if len(p.Subtopics) > 0 {
		fmt.Fprintf(&b, "- Các chủ đề con: %s\n", strings.Join(p.Subtopics, ", "))
	}
	fmt.Fprintf(&b, "- Độ khó: %s\n", p.Difficulty)
	fmt.Fprintf(&b, "- Đối tượng: %s\n\n", p.Audience)
	b.WriteString(quizRules)
	return b.String()
}

func buildQuickQuizPrompt(topics []string, d Distribution) string {
	var b strings.Builder
	b.WriteString("Bạn là một giáo viên tiếng Anh với 10 năm kinh nghiệm.\n\n")
	b.WriteString("Nhiệm vụ:\n")
	fmt.Fprintf(&b, "- Tạo %d câu hỏi trắc nghiệm 4 đáp án (1 đúng)\n", d.Total())
	b.WriteString("- Ngôn ngữ: Tiếng Anh\n")
	fmt.Fprintf(&b, "- Chủ đề tập trung: %s\n", strings.Join(topics, ", "))
	b.WriteString("- Phân bổ:\n")
	fmt.Fprintf(&b, "  + %d câu về từ vựng và cụm từ thông dụng\n", d.Vocabulary)
	fmt.Fprintf(&b, "  + %d câu về ngữ pháp thực tế\n", d.Grammar)
	fmt.Fprintf(&b, "  + %d câu về cách diễn đạt và giao tiếp\n\n", d.Communication)
	b.WriteString("Thứ tự câu hỏi được sắp xếp ngẫu nhiên, không theo phân bổ đã cho.\n")
	b.WriteString("Tập trung vào kiến thức thường dùng trong giao tiếp hàng ngày.\n\n")
	b.WriteString(quizRules)
	return b.String()
}

var scramblePerspectives = []string{
	"language teacher",
	"vocabulary expert",
	"educational game designer",
	"university linguistics lecturer",
	"language learning app developer",
}

var scrambleApproaches = []string{
	"real-world scenario-based learning",
	"contextual communication approach",
	"functional language approach",
	"skill-oriented teaching method",
}

// scramblePromptInput holds the randomized and derived values of one scramble prompt.
type scramblePromptInput struct {
	Params      ScrambleParams
	Perspective string
	Approach    string
	Seed        string
	MinLength   int
	MaxLength   int
}

func buildScramblePrompt(in scramblePromptInput) string {
	topics := "random English vocabulary"
	if len(in.Params.Topics) > 0 {
		topics = strings.Join(in.Params.Topics, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an experienced %s with 15 years of expertise applying the %s method.\n", in.Perspective, in.Approach)
	fmt.Fprintf(&b, "Seed: %s\n\n", in.Seed)
	b.WriteString("TASK:\n")
	fmt.Fprintf(&b, "Generate %d English word scramble puzzles (single words or short phrases).\n\n", in.Params.Quantity)
	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "- Difficulty: %s\n", in.Params.Difficulty)
	fmt.Fprintf(&b, "- Topics: %s\n", topics)
	b.WriteString("- Randomized order (no predictable sequence)\n\n")
	b.WriteString("WORD LENGTH RULES:\n")
	fmt.Fprintf(&b, "1. Include only words or phrases between %d and %d letters long.\n", in.MinLength, in.MaxLength)
	b.WriteString("2. Exclude any word outside this range.\n\n")
	b.WriteString(`SCRAMBLING RULES:
1. No two adjacent letters from the original remain together; at least 70% of letter positions differ.
2. The scrambled result must be solvable.
3. All words must be UPPERCASE (e.g., "COMMUNICATION").

CONTENT STRUCTURE:
- word: original word or phrase (uppercase)
- scrambled: shuffled version following the rules above
- hint (Vietnamese): short definition, usage situation, synonym/antonym or real-life example
- explanation: object with meaning (Vietnamese), pronunciation (IPA "/.../"), partOfSpeech (Vietnamese),
  example (English sentence) and exampleTranslation (Vietnamese)

OUTPUT FORMAT:
Return pure JSON only, no markdown, comments, or special characters:

{
  "words": [
    {
      "id": 1,
      "word": "ORIGINAL WORD",
      "scrambled": "SCRAMBLED VERSION",
      "hint": "Vietnamese hint",
      "explanation": {
        "meaning": "Meaning in Vietnamese",
        "pronunciation": "/IPA pronunciation/",
        "partOfSpeech": "danh từ/động từ/tính từ",
        "example": "Short example sentence in English",
        "exampleTranslation": "Vietnamese translation of the example"
      }
    }
  ]
}

VALIDATION:
- Each entry must meet all word length rules.
- No duplicates or repeated scrambles.`)
	return b.String()
}
