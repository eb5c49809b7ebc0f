// keyscribe - голосовой ввод текста из системного трея.
//
// Удержание горячей клавиши записывает речь, после отпускания запись
// распознаётся облачной моделью и вставляется в активное окно.
package main

func main() {
	Execute()
}
