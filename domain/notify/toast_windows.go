//go:build windows

package notify

import (
	"os/exec"
	"strings"
	"syscall"
)

const toastScript = `
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
$xml = New-Object Windows.Data.Xml.Dom.XmlDocument
$xml.LoadXml('<toast><visual><binding template="ToastGeneric"><text>{{TITLE}}</text><text>{{BODY}}</text></binding></visual><audio src="ms-winsoundevent:Notification.Default"/></toast>')
$toast = New-Object Windows.UI.Notifications.ToastNotification $xml
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('{{APP}}').Show($toast)
`

// showToast starts PowerShell to raise a WinRT toast and does not wait for it.
func showToast(m Message) error {
	script := strings.NewReplacer(
		"{{TITLE}}", psEscape(m.Title),
		"{{BODY}}", psEscape(m.Body),
		"{{APP}}", psEscape(AppName),
	).Replace(toastScript)
	cmd := exec.Command("powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// psEscape makes s safe inside a single-quoted PowerShell string holding XML.
func psEscape(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "''",
		"\n", " ",
	).Replace(s)
}
