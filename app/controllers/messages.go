package controllers

import "fmt"

const (
	msgValidation       = "バリデーションエラーが発生しました。"
	msgMalformedBody    = "リクエストの形式が正しくありません。"
	msgServerError      = "サーバーエラーが発生しました。"
	msgRegistered       = "ユーザー登録が完了しました。"
	msgLoggedIn         = "ログインしました。"
	msgBadCredentials   = "メールアドレスまたはパスワードが正しくありません。"
	msgLoggedOut        = "ログアウトしました。"
	msgWrongPassword    = "パスワードが正しくありません。"
	msgAccountDeleted   = "アカウントを削除しました。"
	msgGoalCreated      = "目標を作成しました。"
	msgGoalUpdated      = "目標を更新しました。"
	msgGoalNotFound     = "目標が見つかりません。"
	msgLinkedGoalAbsent = "指定された目標が見つかりません。"
	msgTaskCreated      = "タスクを作成しました。"
	msgTaskUpdated      = "タスクを更新しました。"
	msgTaskCompleted    = "タスクを完了しました。"
	msgTaskNotFound     = "タスクが見つかりません。"
	msgTaskAlreadyDone  = "タスクは既に完了しています。"
	msgHoneypot         = "入力内容に問題があります。再度お試しください。"
)

// fieldMessages overrides the generic message for a field and rule.
var fieldMessages = map[string]string{
	"name.required":               "お名前は必須項目です。",
	"email.required":              "メールアドレスは必須項目です。",
	"email.email":                 "有効なメールアドレスを入力してください。",
	"email.unique":                "このメールアドレスは既に登録されています。",
	"password.required":           "パスワードは必須項目です。",
	"password.eqfield":            "パスワード確認が一致しません。",
	"title.required":              "タイトルは必須です。",
	"title.max":                   "タイトルは255文字以内で入力してください。",
	"type.required":               "タスクタイプは必須です。",
	"type.oneof":                  "タスクタイプは有効な値を選択してください。",
	"recurrence_type.required_if": "繰り返しタスクの場合は、繰り返しタイプを選択してください。",
	"recurrence_type.oneof":       "繰り返しタイプは有効な値を選択してください。",
	"due_date.required_if":        "期限付きタスクの場合は、期限日を設定してください。",
	"due_date.date":               "期限日は有効な日付形式で入力してください。",
	"due_date.after_now":          "期限日は現在より後の日付を設定してください。",
	"status.required":             "ステータスは必須です。",
	"status.oneof":                "ステータスは有効な値を選択してください。",
}

var attributeNames = map[string]string{
	"name":                  "お名前",
	"email":                 "メールアドレス",
	"password":              "パスワード",
	"password_confirmation": "パスワード確認",
	"title":                 "タイトル",
	"description":           "説明",
	"goal_uuid":             "目標",
	"type":                  "タスクタイプ",
	"recurrence_type":       "繰り返しタイプ",
	"due_date":              "期限日",
	"status":                "ステータス",
	"notes":                 "メモ",
}

var ruleMessages = map[string]string{
	"required":    "%sは必須です。",
	"required_if": "%sを入力してください。",
	"max":         "%sは%s文字以内で入力してください。",
	"min":         "%sは%s文字以上で入力してください。",
	"email":       "%sには有効なメールアドレスを指定してください。",
	"oneof":       "%sは有効な値を選択してください。",
	"date":        "%sは有効な日付形式で入力してください。",
	"after_now":   "%sは現在より後の日付を設定してください。",
	"string":      "%sは文字列で入力してください。",
	"mixed_case":  "%sには大文字と小文字をそれぞれ1文字以上含めてください。",
	"has_number":  "%sには数字を1文字以上含めてください。",
	"has_symbol":  "%sには記号を1文字以上含めてください。",
	"eqfield":     "%sが一致しません。",
}

// fieldMessage returns the message for field failing rule; param is the rule
// argument, such as the limit of max.
func fieldMessage(field, rule, param string) string {
	if msg, ok := fieldMessages[field+"."+rule]; ok {
		return msg
	}
	attr, ok := attributeNames[field]
	if !ok {
		attr = field
	}
	format, ok := ruleMessages[rule]
	if !ok {
		return fmt.Sprintf("%sの値が正しくありません。", attr)
	}
	switch rule {
	case "max", "min":
		return fmt.Sprintf(format, attr, param)
	default:
		return fmt.Sprintf(format, attr)
	}
}
