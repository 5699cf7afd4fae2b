package mailer

import "fmt"

// inviteEmailHTML renders the branded invite message.  The layout is
// table-based inline-styled HTML so it survives email clients.
func inviteEmailHTML(magicLink, email, inviteID string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>You're invited to ArbitrageOS</title>
</head>
<body style="margin:0;padding:0;background:#0b1a17;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background:#0b1a17;padding:40px 20px;">
    <tr>
      <td align="center">
        <table width="100%%" cellpadding="0" cellspacing="0" style="max-width:560px;">
          <tr>
            <td align="center" style="padding-bottom:32px;">
              <span style="font-size:28px;font-weight:700;color:#ffffff;letter-spacing:-0.5px;">arbitrageOS</span>
              <span style="font-size:14px;color:#6b7280;display:block;margin-top:4px;">by GrowAI</span>
            </td>
          </tr>
          <tr>
            <td style="background:#0f2e2c;border:1px solid rgba(92,196,157,0.2);border-radius:16px;padding:40px 36px;">
              <h1 style="margin:0 0 8px;font-size:22px;font-weight:600;color:#ffffff;">
                You've been invited
              </h1>
              <p style="margin:0 0 28px;font-size:14px;color:#9ca3af;line-height:1.6;">
                Click the button below to accept your invitation and sign in to ArbitrageOS.
                This link is valid for <strong style="color:#d1fae5;font-weight:600;">7 days</strong> and can only be used once.
              </p>
              <table width="100%%" cellpadding="0" cellspacing="0">
                <tr>
                  <td align="center" style="padding-bottom:28px;">
                    <a href="%s"
                       style="display:inline-block;background:#5CC49D;color:#000000;font-size:15px;font-weight:600;
                              text-decoration:none;padding:14px 36px;border-radius:10px;letter-spacing:0.2px;">
                      Accept invitation
                    </a>
                  </td>
                </tr>
              </table>
              <p style="margin:0;font-size:12px;color:#6b7280;line-height:1.6;">
                This invitation was sent to %s. If you weren't expecting it you can safely ignore this email.
              </p>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding-top:24px;">
              <span style="font-size:11px;color:#4b5563;">Invite reference: %s</span>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`, magicLink, email, inviteID)
}

// inviteEmailText is the plain-text fallback for the same message.
func inviteEmailText(magicLink, inviteID string) string {
	return fmt.Sprintf(`You've been invited to ArbitrageOS.

Accept your invitation and sign in:
%s

This link is valid for 7 days and can only be used once.

If you weren't expecting this invitation you can safely ignore this email.

Invite reference: %s
`, magicLink, inviteID)
}
