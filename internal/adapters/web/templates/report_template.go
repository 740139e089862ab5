package templates

// FleetReportHTML renders a printable fleet status report.
// Data: handlers.reportData.
const FleetReportHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Fleet Status Report</title>
    <style>
        :root {
            --text-primary: #111827;
            --text-secondary: #6b7280;
            --danger: #ef4444;
            --warning: #f59e0b;
            --success: #10b981;
            --border: #e5e7eb;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            color: var(--text-primary);
            margin: 32px;
        }
        .meta { color: var(--text-secondary); font-size: 13px; }
        .cards { display: flex; gap: 16px; margin: 24px 0; }
        .card { border: 1px solid var(--border); border-radius: 8px; padding: 16px; flex: 1; }
        .card .value { font-size: 28px; font-weight: bold; display: block; }
        table { border-collapse: collapse; width: 100%; margin-bottom: 32px; font-size: 13px; }
        th, td { border-bottom: 1px solid var(--border); padding: 6px 8px; text-align: left; }
        .online { color: var(--success); }
        .offline { color: var(--danger); }
        .low-battery { color: var(--warning); }
    </style>
</head>
<body>
    <h1>Fleet Status Report</h1>
    <div class="meta">
        Generated on {{.GeneratedAt.Format "Jan 02, 2006 15:04:05"}}<br>
        Snapshot version {{.Summary.Version}}
    </div>

    <div class="cards">
        <div class="card"><span class="value">{{.Summary.Total}}</span>Robots</div>
        <div class="card"><span class="value online">{{.Summary.Online}}</span>Online</div>
        <div class="card"><span class="value offline">{{.Summary.Offline}}</span>Offline</div>
        <div class="card"><span class="value low-battery">{{.Summary.LowBattery}}</span>Low battery</div>
        <div class="card"><span class="value">{{.Summary.CriticalAlerts}}</span>Critical alerts</div>
    </div>

    <h2>Robots</h2>
    <table>
        <thead>
            <tr><th>ID</th><th>Status</th><th>Battery</th><th>CPU</th><th>RAM</th><th>Location</th><th>Updated</th></tr>
        </thead>
        <tbody>
            {{range .Robots}}
            <tr>
                <td style="font-family: monospace;">{{.ID}}</td>
                <td class="{{.Status}}">{{.Status}}</td>
                <td>{{printf "%.0f" .BatteryPercentage}}%</td>
                <td>{{printf "%.0f" .CPUUsage}}%</td>
                <td>{{printf "%.0f" .RAMUsage}}%</td>
                <td>{{printf "%.4f" .Location.Latitude}}, {{printf "%.4f" .Location.Longitude}}</td>
                <td>{{.LastUpdated.Format "15:04:05"}}</td>
            </tr>
            {{else}}
            <tr><td colspan="7">No robots</td></tr>
            {{end}}
        </tbody>
    </table>

    <h2>Timeline</h2>
    {{if .Samples}}
    <table>
        <thead>
            <tr><th>Time</th><th>Online</th><th>Offline</th><th>Low battery</th></tr>
        </thead>
        <tbody>
            {{range .Samples}}
            <tr>
                <td>{{.ChartLabel}}</td>
                <td class="online">{{.Online}}</td>
                <td class="offline">{{.Offline}}</td>
                <td class="low-battery">{{.LowBattery}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>
    {{else}}
    <p class="meta">No samples collected yet.</p>
    {{end}}
</body>
</html>
`
